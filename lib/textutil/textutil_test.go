package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{input: "  Fall   2019 ", expected: "Fall 2019"},
		{input: "COT 3100", expected: "COT 3100"},
		{input: "\n\tIntro to\n  Programming\t", expected: "Intro to Programming"},
		{input: "  ", expected: ""},
		{input: "", expected: ""},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, CleanText(test.input))
	}
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "instructor:", NormalizeName("  Instructor: \n"))
	require.Equal(t, "meangpa", NormalizeName("Mean GPA"))
}

func TestMatchName(t *testing.T) {
	require.True(t, MatchName("  Instructor:  ", []string{"instructor"}))
	require.False(t, MatchName("Course ID", []string{"instructor"}))
}
