package isqscrape

import (
	"context"
	"errors"
	"fmt"
	"isqexplorer-backend/lib/outcome"
	"isqexplorer-backend/lib/timezone"
	"log/slog"
	"strconv"
	"sync"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/isqscrape")

const (
	StageDepartments = "departments"
	StageTerms       = "terms"
	StageOfferings   = "offerings"
	StageEntries     = "entries"
)

const (
	DefaultSearchPath  = "/wksfwbs.p_dept_schd"
	DefaultProfilePath = "/wksfwbs.p_instructor_isq_grade"
)

type Options struct {
	// SearchPath is the path of the departmental schedule search page,
	// relative to the fetcher's base url.
	SearchPath string
	// ProfilePath is the path professor profile pages live under.
	ProfilePath string

	Fetcher     DocumentFetcher
	Departments DepartmentRepo
	Terms       TermRepo
	Courses     CourseRepo
	Professors  ProfessorRepo
	Entries     EntryRepo
}

type Scraper struct {
	options Options
}

func NewScraper(options Options) *Scraper {
	if options.SearchPath == "" {
		options.SearchPath = DefaultSearchPath
	}
	if options.ProfilePath == "" {
		options.ProfilePath = DefaultProfilePath
	}
	return &Scraper{options: options}
}

// Run scrapes the whole site: departments and terms from the schedule
// search page, then course offerings and professors for every
// department/term pair, then evaluation entries for every known
// professor, and finally persists everything through the repositories.
// a department or term failure aborts the run, everything after that
// only accumulates into the report's error list.
func (s *Scraper) Run(ctx context.Context) (*RunReport, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	run := &scraper{
		Options: s.options,
		wg:      &sync.WaitGroup{},
		bag:     &ErrorBag{},
	}
	started := timezone.Now()

	result := run.scrapeDepartments(ctx).And(func() outcome.Result {
		return run.scrapeTerms(ctx)
	})
	if !result.IsOk() {
		span.RecordError(result.Err())
		span.SetStatus(codes.Error, "scrape aborted")
		return nil, result.Err()
	}

	departments, err := run.Departments.All(ctx)
	if err != nil {
		return nil, err
	}
	terms, err := run.Terms.All(ctx)
	if err != nil {
		return nil, err
	}

	for _, dept := range departments {
		for _, term := range terms {
			run.wg.Add(1)
			go run.scrapeOfferings(ctx, dept, term)
		}
	}
	run.wg.Wait()

	professors, err := run.Professors.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, professor := range professors {
		run.wg.Add(1)
		go run.scrapeEntries(ctx, professor)
	}
	run.wg.Wait()

	err = run.persist(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist scraped entities")
		return nil, err
	}

	courseCodes, err := run.Courses.Codes(ctx)
	if err != nil {
		return nil, err
	}
	entryCount, err := run.Entries.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &RunReport{
		Started:     started,
		Finished:    timezone.Now(),
		Departments: len(departments),
		Terms:       len(terms),
		Courses:     len(courseCodes),
		Professors:  len(professors),
		Entries:     entryCount,
		Errors:      run.bag.Errors(),
	}, nil
}

type scraper struct {
	Options
	wg  *sync.WaitGroup
	bag *ErrorBag
}

func (s *scraper) scrapeDepartments(ctx context.Context) outcome.Result {
	ctx, span := tracer.Start(ctx, "scrapeDepartments")
	defer span.End()

	doc, err := s.Fetcher.Fetch(ctx, s.SearchPath)
	if err != nil {
		return outcome.Fail(fmt.Errorf("fetch schedule search page: %w", err))
	}
	options, err := parseSelectOptions(doc, deptSelectName)
	if err != nil {
		return outcome.Fail(fmt.Errorf("department selector: %w", err))
	}

	departments := make([]Department, len(options))
	for i, opt := range options {
		departments[i] = Department{Id: opt.Id, Name: opt.Name}
	}
	s.Departments.AddRange(departments)

	slog.InfoContext(ctx, "scraped departments", "count", len(departments))
	return outcome.OK()
}

func (s *scraper) scrapeTerms(ctx context.Context) outcome.Result {
	ctx, span := tracer.Start(ctx, "scrapeTerms")
	defer span.End()

	doc, err := s.Fetcher.Fetch(ctx, s.SearchPath)
	if err != nil {
		return outcome.Fail(fmt.Errorf("fetch schedule search page: %w", err))
	}
	options, err := parseSelectOptions(doc, termSelectName)
	if err != nil {
		return outcome.Fail(fmt.Errorf("term selector: %w", err))
	}

	terms := make([]Term, len(options))
	for i, opt := range options {
		_, err := ParseTermName(opt.Name)
		if err != nil {
			return outcome.Fail(err)
		}
		terms[i] = Term{Id: opt.Id, Name: opt.Name}
	}
	s.Terms.AddRange(terms)

	slog.InfoContext(ctx, "scraped terms", "count", len(terms))
	return outcome.OK()
}

type offeringStats struct {
	Courses    int
	Professors int
}

// scrapeOfferings is one unit of the department/term fan-out. a panic
// inside the collection becomes an error bag entry instead of taking
// down sibling units.
func (s *scraper) scrapeOfferings(ctx context.Context, dept Department, term Term) {
	defer s.wg.Done()

	slog.DebugContext(ctx, "scraping offerings", "department", dept.Name, "term", term.Name)

	stats := outcome.Do(func() offeringStats {
		return s.collectOfferings(ctx, dept, term)
	})
	if !stats.IsOk() {
		s.bag.Add(ScrapeError{
			Severity:   SeverityError,
			Stage:      StageOfferings,
			Department: dept.Name,
			Term:       term.Name,
			Err:        stats.Err(),
		})
		return
	}
	slog.DebugContext(ctx, "scraped offerings",
		"department", dept.Name, "term", term.Name,
		"courses", stats.Value().Courses, "professors", stats.Value().Professors)
}

func (s *scraper) collectOfferings(ctx context.Context, dept Department, term Term) offeringStats {
	ctx, span := tracer.Start(ctx, "collectOfferings")
	defer span.End()

	fail := func(severity Severity, err error) {
		s.bag.Add(ScrapeError{
			Severity:   severity,
			Stage:      StageOfferings,
			Department: dept.Name,
			Term:       term.Name,
			Err:        err,
		})
	}

	doc, err := s.Fetcher.SubmitForm(ctx, s.SearchPath, map[string]string{
		deptSelectName: strconv.FormatInt(dept.Id, 10),
		termSelectName: strconv.FormatInt(term.Id, 10),
	})
	if err != nil {
		fail(SeverityError, err)
		return offeringStats{}
	}

	page, err := parseOfferingsPage(doc)
	if errors.Is(err, errNoOfferings) {
		fail(SeverityInfo, err)
		return offeringStats{}
	}
	if err != nil {
		fail(SeverityError, err)
		return offeringStats{}
	}
	for _, issue := range page.Issues {
		fail(SeverityError, issue)
	}

	for i := range page.Courses {
		page.Courses[i].DepartmentId = dept.Id
		s.Courses.Add(page.Courses[i])
	}

	added := 0
	for _, link := range page.Links {
		if s.addProfessor(ctx, dept, term, link) {
			added++
		}
	}
	return offeringStats{Courses: len(page.Courses), Professors: added}
}

// addProfessor resolves one instructor link into a professor row. a
// link whose n-number is already known is skipped without fetching the
// profile page.
func (s *scraper) addProfessor(ctx context.Context, dept Department, term Term, link instructorLink) bool {
	fail := func(severity Severity, err error) {
		s.bag.Add(ScrapeError{
			Severity:   severity,
			Stage:      StageOfferings,
			Department: dept.Name,
			Term:       term.Name,
			Professor:  link.NNumber,
			Url:        link.Href,
			Err:        err,
		})
	}

	known, err := s.Professors.Exists(ctx, link.NNumber)
	if err != nil {
		fail(SeverityError, err)
		return false
	}
	if known {
		return false
	}

	doc, err := s.Fetcher.Fetch(ctx, link.Href)
	if err != nil {
		fail(SeverityError, err)
		return false
	}
	first, last, ok := parseInstructorName(doc)
	if !ok {
		fail(SeverityInfo, errors.New("profile has no instructor field, likely no evaluation data"))
		return false
	}

	s.Professors.Add(Professor{
		NNumber:      link.NNumber,
		FirstName:    first,
		LastName:     last,
		DepartmentId: dept.Id,
	})
	return true
}

// scrapeEntries is one unit of the per-professor fan-out. like
// scrapeOfferings it turns a panic into an error bag entry.
func (s *scraper) scrapeEntries(ctx context.Context, professor Professor) {
	defer s.wg.Done()

	slog.DebugContext(ctx, "scraping entries", "professor", professor.NNumber)

	count := outcome.Do(func() int {
		return s.collectEntries(ctx, professor)
	})
	if !count.IsOk() {
		s.bag.Add(ScrapeError{
			Severity:  SeverityError,
			Stage:     StageEntries,
			Professor: professor.NNumber,
			Err:       count.Err(),
		})
		return
	}
	slog.DebugContext(ctx, "scraped entries", "professor", professor.NNumber, "count", count.Value())
}

func (s *scraper) collectEntries(ctx context.Context, professor Professor) int {
	ctx, span := tracer.Start(ctx, "collectEntries")
	defer span.End()

	pageUrl := fmt.Sprintf("%s?pv_instructor=%s", s.ProfilePath, professor.NNumber)
	fail := func(err error) {
		s.bag.Add(ScrapeError{
			Severity:  SeverityError,
			Stage:     StageEntries,
			Professor: professor.NNumber,
			Url:       pageUrl,
			Err:       err,
		})
	}

	doc, err := s.Fetcher.Fetch(ctx, pageUrl)
	if err != nil {
		fail(err)
		return 0
	}
	page, err := parseProfilePage(doc)
	if err != nil {
		fail(err)
		return 0
	}
	for _, issue := range page.Issues {
		fail(issue)
	}

	added := 0
	for _, pe := range page.Entries {
		entry, err := s.resolveEntry(ctx, pe)
		if err != nil {
			fail(err)
			continue
		}
		entry.ProfessorNNumber = professor.NNumber
		s.Entries.Add(entry)
		added++
	}
	return added
}

// resolveEntry checks an entry row against the known term and course
// sets. an unknown course error names the nearest known code as a
// hint.
func (s *scraper) resolveEntry(ctx context.Context, pe profileEntry) (Entry, error) {
	entry := pe.Entry

	term, err := s.Terms.LookupName(ctx, pe.TermName)
	if err != nil {
		return Entry{}, err
	}
	if !term.IsPresent() {
		return Entry{}, fmt.Errorf("unknown term %q", pe.TermName)
	}
	entry.TermId = term.Get().Id

	course, err := s.Courses.LookupCode(ctx, entry.CourseCode)
	if err != nil {
		return Entry{}, err
	}
	if !course.IsPresent() {
		hint := s.nearestCourseCode(ctx, entry.CourseCode)
		if hint == "" {
			return Entry{}, fmt.Errorf("unknown course %q", entry.CourseCode)
		}
		return Entry{}, fmt.Errorf("unknown course %q, nearest known code is %q", entry.CourseCode, hint)
	}

	return entry, nil
}

func (s *scraper) nearestCourseCode(ctx context.Context, code string) string {
	codes, err := s.Courses.Codes(ctx)
	if err != nil {
		return ""
	}

	best := ""
	bestSimilarity := 0.0
	for _, candidate := range codes {
		similarity := matchr.JaroWinkler(code, candidate, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = candidate
		}
	}
	return best
}

func (s *scraper) persist(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "persist")
	defer span.End()

	kinds := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"departments", s.Departments.Persist},
		{"terms", s.Terms.Persist},
		{"courses", s.Courses.Persist},
		{"professors", s.Professors.Persist},
		{"entries", s.Entries.Persist},
	}
	for _, kind := range kinds {
		err := kind.fn(ctx)
		if err != nil {
			return fmt.Errorf("persist %s: %w", kind.name, err)
		}
	}
	return nil
}
