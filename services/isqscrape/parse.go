package isqscrape

import (
	"errors"
	"fmt"
	"isqexplorer-backend/lib/htmltable"
	"isqexplorer-backend/lib/htmlutil"
	"isqexplorer-backend/lib/outcome"
	"isqexplorer-backend/lib/textutil"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	deptSelectName = "pv_dept"
	termSelectName = "pv_term"

	// resultTableSelector matches the data tables of a schedule search
	// response and of a professor profile page.
	resultTableSelector = "table.datadisplaytable"
)

const (
	colCourse     = "Course"
	colTitle      = "Title"
	colInstructor = "Instructor"

	colEnrolled  = "Enrolled"
	colResponded = "Responded"

	colExcellent = "Excellent"
	colVeryGood  = "Very Good"
	colGood      = "Good"
	colFair      = "Fair"
	colPoor      = "Poor"
	colNa        = "NR/NA"

	colMeanGpa = "Mean GPA"
)

// sectionColumns names the columns both profile tables identify a
// course section by.
var sectionColumns = htmltable.KeyColumns{
	Term:   "Term",
	Crn:    "CRN",
	Course: "Course ID",
}

type selectOption struct {
	Id   int64
	Name string
}

// parseSelectOptions extracts the options of a named select element.
// the first option is always a "choose one" placeholder and is skipped.
func parseSelectOptions(doc *goquery.Document, name string) ([]selectOption, error) {
	sel := doc.Find(fmt.Sprintf("select[name=%q]", name))
	if sel.Length() == 0 {
		return nil, fmt.Errorf("could not find a select element named %q", name)
	}

	var options []selectOption
	var err error
	sel.Find("option").Each(func(i int, opt *goquery.Selection) {
		if err != nil || i == 0 {
			return
		}
		value := strings.TrimSpace(opt.AttrOr("value", ""))
		id, parseErr := strconv.ParseInt(value, 10, 64)
		if parseErr != nil {
			err = fmt.Errorf("select %q option %d: parse id %q: %w", name, i, value, parseErr)
			return
		}
		options = append(options, selectOption{
			Id:   id,
			Name: textutil.CleanText(opt.Text()),
		})
	})
	if err != nil {
		return nil, err
	}
	return options, nil
}

// errNoOfferings marks a schedule search response without the expected
// result tables. the site renders such a page when a department/term
// pair has nothing scheduled, so this is an expected condition.
var errNoOfferings = errors.New("most likely no course offerings")

type instructorLink struct {
	NNumber string
	Href    string
}

type offeringsPage struct {
	Courses []Course
	Links   []instructorLink
	// Issues holds per-cell failures that did not stop the parse.
	Issues []error
}

// parseOfferingsPage reads a schedule search response. its third result
// table lists the sections offered, one row per section, with the
// course in one column and a link to the instructor's profile in
// another.
func parseOfferingsPage(doc *goquery.Document) (offeringsPage, error) {
	tables := doc.Find(resultTableSelector)
	if tables.Length() != 3 {
		return offeringsPage{}, fmt.Errorf(
			"%w: expected 3 result tables, found %d",
			errNoOfferings, tables.Length(),
		)
	}

	table, err := htmltable.Parse(tables.Eq(2))
	if err != nil {
		return offeringsPage{}, err
	}
	if !table.HasColumn(colCourse) || !table.HasColumn(colInstructor) {
		return offeringsPage{}, fmt.Errorf(
			"offerings table has columns [%s], expected %q and %q",
			strings.Join(table.Titles(), ", "), colCourse, colInstructor,
		)
	}

	var page offeringsPage
	seen := map[string]bool{}
	for _, row := range table.Rows() {
		code, err := row.Text(colCourse)
		if err != nil {
			return offeringsPage{}, err
		}
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true

		// older result pages have no title column, those courses keep
		// a blank display name
		title, err := outcome.CatchOnly[string, htmltable.ColumnError](func() (string, error) {
			return row.Text(colTitle)
		})
		if err != nil {
			return offeringsPage{}, err
		}
		name := ""
		if title.IsOk() {
			name = title.Value()
		}
		page.Courses = append(page.Courses, Course{Code: code, Name: name})
	}

	for _, row := range table.Rows() {
		cell, err := row.Cell(colInstructor)
		if err != nil {
			return offeringsPage{}, err
		}
		anchors := htmlutil.Anchors(cell)
		if len(anchors) == 0 {
			text := textutil.CleanText(cell.Text())
			if text == "" {
				// a non-data placeholder row
				continue
			}
			page.Issues = append(page.Issues, fmt.Errorf("instructor cell %q is not a link", text))
			continue
		}
		for _, a := range anchors {
			nNumber, ok := ParseNNumber(a.Href)
			if !ok {
				page.Issues = append(page.Issues, fmt.Errorf("instructor link %q has no n-number", a.Href))
				continue
			}
			page.Links = append(page.Links, instructorLink{NNumber: nNumber, Href: a.Href})
		}
	}

	return page, nil
}

// parseInstructorName finds the labeled "Instructor:" field of a
// profile page. profiles without one have no evaluation data at all.
func parseInstructorName(doc *goquery.Document) (first, last string, ok bool) {
	var name string
	doc.Find(resultTableSelector + " tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.ChildrenFiltered("th, td")
		if cells.Length() < 2 {
			return true
		}
		label := cells.First().Text()
		if !textutil.MatchName(label, []string{"instructor"}) {
			return true
		}
		name = textutil.CleanText(cells.Eq(1).Text())
		return false
	})
	if name == "" {
		return "", "", false
	}
	first, last = parsePersonName(name)
	return first, last, true
}

// parsePersonName splits a display name into first and last. profile
// pages render "Last, First", schedule pages "First Last".
func parsePersonName(full string) (first, last string) {
	if before, after, found := strings.Cut(full, ","); found {
		return strings.TrimSpace(after), strings.TrimSpace(before)
	}
	fields := strings.Fields(full)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return "", fields[0]
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}

type profileEntry struct {
	// TermName is the display name the page identifies the term by,
	// resolved to a term id by the caller.
	TermName string
	Entry    Entry
}

type profilePage struct {
	Entries []profileEntry
	// Issues holds per-row failures, rows that produced no entry.
	Issues []error
}

// parseProfilePage reads the evaluation tables of a professor profile.
// modern pages carry six datadisplaytable elements where index 3 is the
// main evaluation table and index 5 is the gpa table. pages from before
// gpa data was published carry four, with index 3 the sole evaluation
// table, and every grade distribution field stays 0.
func parseProfilePage(doc *goquery.Document) (profilePage, error) {
	tables := doc.Find(resultTableSelector)
	switch tables.Length() {
	case 6:
		main, err := htmltable.Parse(tables.Eq(3))
		if err != nil {
			return profilePage{}, fmt.Errorf("evaluation table: %w", err)
		}
		gpa, err := htmltable.Parse(tables.Eq(5))
		if err != nil {
			return profilePage{}, fmt.Errorf("gpa table: %w", err)
		}
		joined, err := htmltable.InnerJoin(main, gpa, sectionColumns)
		if err != nil {
			return profilePage{}, err
		}

		var page profilePage
		for _, j := range joined {
			entry := Entry{Crn: j.Key.Crn, CourseCode: j.Key.Course}
			err := readMainRow(&entry, j.Left)
			if err == nil {
				err = readGpaRow(&entry, j.Right)
			}
			if err != nil {
				page.Issues = append(page.Issues, fmt.Errorf(
					"section (%s, %s, %s): %w",
					j.Key.Term, j.Key.Crn, j.Key.Course, err,
				))
				continue
			}
			page.Entries = append(page.Entries, profileEntry{TermName: j.Key.Term, Entry: entry})
		}
		return page, nil
	case 4:
		main, err := htmltable.Parse(tables.Eq(3))
		if err != nil {
			return profilePage{}, fmt.Errorf("evaluation table: %w", err)
		}
		grouped, order, err := htmltable.GroupRows(main, sectionColumns)
		if err != nil {
			return profilePage{}, err
		}

		var page profilePage
		for _, key := range order {
			entry := Entry{Crn: key.Crn, CourseCode: key.Course}
			err := readMainRow(&entry, grouped[key])
			if err != nil {
				page.Issues = append(page.Issues, fmt.Errorf(
					"section (%s, %s, %s): %w",
					key.Term, key.Crn, key.Course, err,
				))
				continue
			}
			page.Entries = append(page.Entries, profileEntry{TermName: key.Term, Entry: entry})
		}
		return page, nil
	}
	return profilePage{}, fmt.Errorf(
		"expected 4 or 6 %q tables, found %d",
		resultTableSelector, tables.Length(),
	)
}

func readMainRow(entry *Entry, row htmltable.Row) error {
	var err error
	entry.NEnrolled, err = row.Int(colEnrolled)
	if err != nil {
		return err
	}
	entry.NResponded, err = row.Int(colResponded)
	if err != nil {
		return err
	}

	fields := []struct {
		column string
		dst    *float64
	}{
		{colExcellent, &entry.PctExcellent},
		{colVeryGood, &entry.PctVeryGood},
		{colGood, &entry.PctGood},
		{colFair, &entry.PctFair},
		{colPoor, &entry.PctPoor},
		{colNa, &entry.PctNa},
	}
	for _, f := range fields {
		*f.dst, err = row.Float(f.column)
		if err != nil {
			return err
		}
	}
	return nil
}

func readGpaRow(entry *Entry, row htmltable.Row) error {
	fields := []struct {
		column string
		dst    *float64
	}{
		{"A", &entry.PctA},
		{"A-", &entry.PctAMinus},
		{"B+", &entry.PctBPlus},
		{"B", &entry.PctB},
		{"B-", &entry.PctBMinus},
		{"C+", &entry.PctCPlus},
		{"C", &entry.PctC},
		{"C-", &entry.PctCMinus},
		{"D", &entry.PctD},
		{"F", &entry.PctF},
		{"W", &entry.PctW},
	}
	for _, f := range fields {
		value, err := row.Float(f.column)
		if err != nil {
			return err
		}
		*f.dst = value
	}

	// a blank mean gpa is legitimate, plenty of rows never had one
	text, err := row.Text(colMeanGpa)
	if err != nil {
		return err
	}
	if text == "" {
		entry.MeanGpa = 0
		return nil
	}
	entry.MeanGpa, err = strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("column %q: parse float %q: %w", colMeanGpa, text, err)
	}
	return nil
}
