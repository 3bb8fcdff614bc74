package isqscrape

import (
	"context"
	"fmt"
	"isqexplorer-backend/lib/outcome"
	"isqexplorer-backend/lib/telemetry"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	fetches map[string]int
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, fetches: map[string]int{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, pageUrl string) (*goquery.Document, error) {
	f.mu.Lock()
	f.fetches[pageUrl]++
	html, ok := f.pages[pageUrl]
	f.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("GET %s: status 404 Not Found", pageUrl)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (f *fakeFetcher) SubmitForm(ctx context.Context, pageUrl string, form map[string]string) (*goquery.Document, error) {
	key := fmt.Sprintf("%s?%s=%s&%s=%s",
		pageUrl,
		deptSelectName, form[deptSelectName],
		termSelectName, form[termSelectName])
	return f.Fetch(ctx, key)
}

func (f *fakeFetcher) count(pageUrl string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[pageUrl]
}

type memDepartments struct {
	mu       sync.Mutex
	list     []Department
	persists int
}

func (m *memDepartments) AddRange(departments []Department) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, dept := range departments {
		known := false
		for _, have := range m.list {
			if have.Id == dept.Id {
				known = true
				break
			}
		}
		if !known {
			m.list = append(m.list, dept)
		}
	}
}

func (m *memDepartments) All(ctx context.Context) ([]Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Department{}, m.list...), nil
}

func (m *memDepartments) Persist(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persists++
	return nil
}

type memTerms struct {
	mu       sync.Mutex
	list     []Term
	persists int
}

func (m *memTerms) AddRange(terms []Term) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, term := range terms {
		known := false
		for _, have := range m.list {
			if have.Id == term.Id {
				known = true
				break
			}
		}
		if !known {
			m.list = append(m.list, term)
		}
	}
}

func (m *memTerms) All(ctx context.Context) ([]Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Term{}, m.list...), nil
}

func (m *memTerms) LookupName(ctx context.Context, name string) (outcome.Optional[Term], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, term := range m.list {
		if term.Name == name {
			return outcome.Some(term), nil
		}
	}
	return outcome.None[Term](), nil
}

func (m *memTerms) Persist(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persists++
	return nil
}

type memCourses struct {
	mu       sync.Mutex
	byCode   map[string]Course
	persists int
}

func (m *memCourses) Add(course Course) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byCode == nil {
		m.byCode = map[string]Course{}
	}
	if _, known := m.byCode[course.Code]; !known {
		m.byCode[course.Code] = course
	}
}

func (m *memCourses) Codes(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	codes := make([]string, 0, len(m.byCode))
	for code := range m.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

func (m *memCourses) LookupCode(ctx context.Context, code string) (outcome.Optional[Course], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course, ok := m.byCode[code]
	if !ok {
		return outcome.None[Course](), nil
	}
	return outcome.Some(course), nil
}

func (m *memCourses) Persist(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persists++
	return nil
}

type memProfessors struct {
	mu        sync.Mutex
	byNNumber map[string]Professor
	persists  int
}

func (m *memProfessors) Add(professor Professor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byNNumber == nil {
		m.byNNumber = map[string]Professor{}
	}
	if _, known := m.byNNumber[professor.NNumber]; !known {
		m.byNNumber[professor.NNumber] = professor
	}
}

func (m *memProfessors) Exists(ctx context.Context, nNumber string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, known := m.byNNumber[nNumber]
	return known, nil
}

func (m *memProfessors) All(ctx context.Context) ([]Professor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Professor, 0, len(m.byNNumber))
	for _, professor := range m.byNNumber {
		out = append(out, professor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NNumber < out[j].NNumber })
	return out, nil
}

func (m *memProfessors) Persist(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persists++
	return nil
}

type memEntries struct {
	mu       sync.Mutex
	byKey    map[string]Entry
	persists int
}

func entryTestKey(entry Entry) string {
	return fmt.Sprintf("%d/%s/%s", entry.TermId, entry.Crn, entry.CourseCode)
}

func (m *memEntries) Add(entry Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byKey == nil {
		m.byKey = map[string]Entry{}
	}
	key := entryTestKey(entry)
	if _, known := m.byKey[key]; !known {
		m.byKey[key] = entry
	}
}

func (m *memEntries) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byKey)), nil
}

func (m *memEntries) Persist(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persists++
	return nil
}

const runSearchPageFixture = `<html><body><form>
<select name="pv_dept">
	<option value="">Choose a department...</option>
	<option value="54820">Computing</option>
</select>
<select name="pv_term">
	<option value="">Choose a term...</option>
	<option value="201980">Fall 2019</option>
	<option value="202010">Spring 2020</option>
</select>
</form></body></html>`

const noOfferingsFixture = `<html><body>
<table class="datadisplaytable"><tr><td>No course offerings were found.</td></tr></table>
</body></html>`

type runFixture struct {
	fetcher     *fakeFetcher
	departments *memDepartments
	terms       *memTerms
	courses     *memCourses
	professors  *memProfessors
	entries     *memEntries
	scraper     *Scraper
}

func newRunFixture(pages map[string]string) *runFixture {
	f := &runFixture{
		fetcher:     newFakeFetcher(pages),
		departments: &memDepartments{},
		terms:       &memTerms{},
		courses:     &memCourses{},
		professors:  &memProfessors{},
		entries:     &memEntries{},
	}
	f.scraper = NewScraper(Options{
		Fetcher:     f.fetcher,
		Departments: f.departments,
		Terms:       f.terms,
		Courses:     f.courses,
		Professors:  f.professors,
		Entries:     f.entries,
	})
	return f
}

func hasError(report *RunReport, substr string) bool {
	for _, err := range report.Errors {
		if strings.Contains(err.Error(), substr) {
			return true
		}
	}
	return false
}

func TestRun(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:isqscrape")
	defer cleanup()

	lowerHref := "wksfwbs.p_instructor_isq_grade?pv_instructor=n00123456"
	upperHref := "wksfwbs.p_instructor_isq_grade?pv_instructor=N00123456"
	profileUrl := "/wksfwbs.p_instructor_isq_grade?pv_instructor=N00123456"

	f := newRunFixture(map[string]string{
		DefaultSearchPath: runSearchPageFixture,
		DefaultSearchPath + "?pv_dept=54820&pv_term=201980": offeringsPageFixture,
		DefaultSearchPath + "?pv_dept=54820&pv_term=202010": noOfferingsFixture,
		lowerHref:  profileModernFixture,
		profileUrl: profileModernFixture,
	})

	report, err := f.scraper.Run(context.Background())
	require.NoError(t, err)

	{
		require.Equal(t, 1, report.Departments)
		require.Equal(t, 2, report.Terms)
		require.Equal(t, 5, report.Courses)
		require.Equal(t, 1, report.Professors)
		require.Equal(t, int64(2), report.Entries)
	}
	{
		// the pair without offerings is informational, the "Staff"
		// cell, the link without an n-number and the row with a broken
		// count are errors
		require.Equal(t, 1, report.ErrorCount(SeverityInfo))
		require.Equal(t, 3, report.ErrorCount(SeverityError))
		require.True(t, hasError(report, "no course offerings"))
		require.True(t, hasError(report, "Staff"))
		require.True(t, hasError(report, "no n-number"))
		require.True(t, hasError(report, "not-a-count"))
	}
	{
		professor := f.professors.byNNumber["N00123456"]
		require.Equal(t, "Jane", professor.FirstName)
		require.Equal(t, "Smith", professor.LastName)
		require.Equal(t, int64(54820), professor.DepartmentId)
	}
	{
		entry := f.entries.byKey["201980/12345/COP 3503"]
		require.Equal(t, "N00123456", entry.ProfessorNNumber)
		require.Equal(t, int64(50), entry.NEnrolled)
		require.Equal(t, int64(40), entry.NResponded)
		require.Equal(t, 10.0, entry.PctExcellent)
		require.Equal(t, 15.0, entry.PctVeryGood)
		require.Equal(t, 20.0, entry.PctA)
		require.Equal(t, 10.0, entry.PctAMinus)
		require.Equal(t, 3.2, entry.MeanGpa)

		blankGpa := f.entries.byKey["202010/22222/COT 3100"]
		require.Equal(t, 0.0, blankGpa.MeanGpa)
	}
	{
		// the second link to the same professor is skipped while the
		// first is still pending
		require.Equal(t, 1, f.fetcher.count(lowerHref))
		require.Equal(t, 0, f.fetcher.count(upperHref))
		require.Equal(t, 1, f.fetcher.count(profileUrl))
	}
	{
		require.Equal(t, 1, f.departments.persists)
		require.Equal(t, 1, f.terms.persists)
		require.Equal(t, 1, f.courses.persists)
		require.Equal(t, 1, f.professors.persists)
		require.Equal(t, 1, f.entries.persists)
	}

	// a second run sees every professor as known and never touches
	// their discovery link again, while entry pages are re-fetched
	report, err = f.scraper.Run(context.Background())
	require.NoError(t, err)

	{
		require.Equal(t, int64(2), report.Entries)
		require.Equal(t, 1, f.fetcher.count(lowerHref))
		require.Equal(t, 0, f.fetcher.count(upperHref))
		require.Equal(t, 2, f.fetcher.count(profileUrl))
		require.Equal(t, 2, f.entries.persists)
	}
}

func TestRunAbortsWithoutSearchPage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:isqscrape")
	defer cleanup()

	f := newRunFixture(map[string]string{})

	_, err := f.scraper.Run(context.Background())
	require.ErrorContains(t, err, "schedule search page")
	require.Equal(t, 0, f.departments.persists)
	require.Equal(t, 0, f.entries.persists)
}

func TestRunAbortsOnUnparseableTerm(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:isqscrape")
	defer cleanup()

	f := newRunFixture(map[string]string{
		DefaultSearchPath: `<html><body><form>
			<select name="pv_dept">
				<option value="">Choose...</option>
				<option value="54820">Computing</option>
			</select>
			<select name="pv_term">
				<option value="">Choose...</option>
				<option value="5">Session 5</option>
			</select>
		</form></body></html>`,
	})

	_, err := f.scraper.Run(context.Background())
	require.ErrorContains(t, err, "unknown season")
	require.Equal(t, 0, f.terms.persists)
}

func TestAddProfessorSkipsProfilesWithoutInstructorField(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:isqscrape")
	defer cleanup()

	href := "wksfwbs.p_instructor_isq_grade?pv_instructor=N00999999"
	f := newRunFixture(map[string]string{
		href: `<html><body>
			<table class="datadisplaytable">
				<tr><th>Department:</th><td>Computing</td></tr>
			</table>
		</body></html>`,
	})

	run := &scraper{Options: f.scraper.options, wg: &sync.WaitGroup{}, bag: &ErrorBag{}}
	added := run.addProfessor(context.Background(),
		Department{Id: 54820, Name: "Computing"},
		Term{Id: 201980, Name: "Fall 2019"},
		instructorLink{NNumber: "N00999999", Href: href})

	require.False(t, added)
	require.Len(t, f.professors.byNNumber, 0)
	require.Equal(t, 1, run.bag.Count(SeverityInfo))
}

func TestResolveEntry(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:isqscrape")
	defer cleanup()

	f := newRunFixture(map[string]string{})
	f.terms.AddRange([]Term{{Id: 201980, Name: "Fall 2019"}})
	f.courses.Add(Course{Code: "COP 3503", Name: "Computer Science II"})

	run := &scraper{Options: f.scraper.options, wg: &sync.WaitGroup{}, bag: &ErrorBag{}}

	{
		entry, err := run.resolveEntry(context.Background(), profileEntry{
			TermName: "Fall 2019",
			Entry:    Entry{Crn: "12345", CourseCode: "COP 3503"},
		})
		require.NoError(t, err)
		require.Equal(t, int64(201980), entry.TermId)
	}
	{
		_, err := run.resolveEntry(context.Background(), profileEntry{
			TermName: "Winter 1999",
			Entry:    Entry{Crn: "12345", CourseCode: "COP 3503"},
		})
		require.ErrorContains(t, err, `unknown term "Winter 1999"`)
	}
	{
		_, err := run.resolveEntry(context.Background(), profileEntry{
			TermName: "Fall 2019",
			Entry:    Entry{Crn: "12345", CourseCode: "COP 3504"},
		})
		require.ErrorContains(t, err, `unknown course "COP 3504"`)
		require.ErrorContains(t, err, `nearest known code is "COP 3503"`)
	}
}
