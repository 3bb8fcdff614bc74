package isqscrape

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScrapeErrorFormat(t *testing.T) {
	cause := errors.New("status 500")

	{
		err := ScrapeError{
			Severity:   SeverityError,
			Stage:      StageOfferings,
			Department: "Computing",
			Term:       "Fall 2019",
			Err:        cause,
		}
		require.Equal(t,
			`[error] offerings department="Computing" term="Fall 2019": status 500`,
			err.Error())
		require.ErrorIs(t, err, cause)
	}
	{
		err := ScrapeError{
			Severity:  SeverityInfo,
			Stage:     StageEntries,
			Professor: "N00123456",
			Err:       errors.New("no evaluation data"),
		}
		require.Equal(t,
			`[info] entries professor="N00123456": no evaluation data`,
			err.Error())
	}
}

func TestErrorBag(t *testing.T) {
	bag := &ErrorBag{}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		severity := SeverityError
		if i%2 == 0 {
			severity = SeverityInfo
		}
		wg.Add(1)
		go func(severity Severity) {
			defer wg.Done()
			bag.Add(ScrapeError{
				Severity: severity,
				Stage:    StageOfferings,
				Err:      errors.New("boom"),
			})
		}(severity)
	}
	wg.Wait()

	require.Equal(t, 20, bag.Len())
	require.Equal(t, 10, bag.Count(SeverityInfo))
	require.Equal(t, 10, bag.Count(SeverityError))
	require.Len(t, bag.Errors(), 20)
}
