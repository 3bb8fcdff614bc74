package isqscrape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Department struct {
	Id   int64
	Name string
}

type Term struct {
	Id   int64
	Name string
}

// Course is identified by its code, e.g. "COP 3503".
type Course struct {
	Code         string
	Name         string
	DepartmentId int64
}

type Professor struct {
	NNumber      string
	FirstName    string
	LastName     string
	DepartmentId int64
}

// Entry is one evaluation record for one professor teaching one course
// section in one term. (TermId, Crn, CourseCode) identifies it. pages
// from before grade distributions were published leave every grade
// percentage and the mean gpa at 0.
type Entry struct {
	TermId           int64
	Crn              string
	CourseCode       string
	ProfessorNNumber string

	NEnrolled  int64
	NResponded int64

	PctExcellent float64
	PctVeryGood  float64
	PctGood      float64
	PctFair      float64
	PctPoor      float64
	PctNa        float64

	PctA      float64
	PctAMinus float64
	PctBPlus  float64
	PctB      float64
	PctBMinus float64
	PctCPlus  float64
	PctC      float64
	PctCMinus float64
	PctD      float64
	PctF      float64
	PctW      float64

	MeanGpa float64
}

var nNumberRegex = regexp.MustCompile(`(?i)N\d{8}`)

// ParseNNumber pulls a professor n-number out of a string, usually a
// profile link url. n-numbers compare case insensitively so they are
// normalized to upper case.
func ParseNNumber(s string) (string, bool) {
	match := nNumberRegex.FindString(s)
	if match == "" {
		return "", false
	}
	return strings.ToUpper(match), true
}

type Season string

const (
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
)

type TermName struct {
	Season Season
	Year   int
}

func (t TermName) String() string {
	return fmt.Sprintf("%s %d", t.Season, t.Year)
}

var seasonOrder = map[Season]int{
	SeasonSpring: 0,
	SeasonSummer: 1,
	SeasonFall:   2,
}

// Before reports whether t comes earlier in the calendar than other.
func (t TermName) Before(other TermName) bool {
	if t.Year != other.Year {
		return t.Year < other.Year
	}
	return seasonOrder[t.Season] < seasonOrder[other.Season]
}

// ParseTermName reads the canonical term display form, a season
// followed by a four digit year, e.g. "Fall 2019".
func ParseTermName(name string) (TermName, error) {
	fields := strings.Fields(name)
	if len(fields) != 2 {
		return TermName{}, fmt.Errorf("term name %q is not a season followed by a year", name)
	}
	season := Season(fields[0])
	switch season {
	case SeasonSpring, SeasonSummer, SeasonFall:
	default:
		return TermName{}, fmt.Errorf("term name %q has unknown season %q", name, fields[0])
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return TermName{}, fmt.Errorf("term name %q has invalid year: %w", name, err)
	}
	return TermName{Season: season, Year: year}, nil
}
