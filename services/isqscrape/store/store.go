package store

import (
	"context"
	"database/sql"
	"errors"
	"isqexplorer-backend/lib/outcome"
	"isqexplorer-backend/lib/timezone"
	"isqexplorer-backend/services/isqscrape"
	"isqexplorer-backend/services/isqscrape/db"
	"sort"
	"sync"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Store implements the scraper's repositories over sqlite. adds buffer
// in memory under a mutex and Persist writes a buffer out in one
// transaction, so a scrape that dies midway leaves the database
// untouched. reads merge the database with the pending buffer.
type Store struct {
	Departments *DepartmentStore
	Terms       *TermStore
	Courses     *CourseStore
	Professors  *ProfessorStore
	Entries     *EntryStore
	Runs        *RunStore
}

func New(database *sql.DB) *Store {
	qry := db.New(database)
	return &Store{
		Departments: &DepartmentStore{db: database, qry: qry},
		Terms:       &TermStore{db: database, qry: qry},
		Courses:     &CourseStore{db: database, qry: qry},
		Professors:  &ProfessorStore{db: database, qry: qry},
		Entries:     &EntryStore{db: database, qry: qry},
		Runs:        &RunStore{qry: qry},
	}
}

type DepartmentStore struct {
	db  *sql.DB
	qry *db.Queries

	mu      sync.Mutex
	pending []isqscrape.Department
}

func (s *DepartmentStore) AddRange(departments []isqscrape.Department) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, departments...)
}

func (s *DepartmentStore) All(ctx context.Context) ([]isqscrape.Department, error) {
	rows, err := s.qry.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]isqscrape.Department, 0, len(rows))
	seen := map[int64]bool{}
	for _, row := range rows {
		out = append(out, isqscrape.Department{Id: row.ID, Name: row.Name})
		seen[row.ID] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, dept := range s.pending {
		if seen[dept.Id] {
			continue
		}
		seen[dept.Id] = true
		out = append(out, dept)
	}
	return out, nil
}

func (s *DepartmentStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for _, dept := range s.pending {
		err := txqry.CreateDepartment(ctx, db.CreateDepartmentParams{
			ID:   dept.Id,
			Name: dept.Name,
		})
		if err != nil {
			return err
		}
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	s.pending = nil
	return nil
}

type TermStore struct {
	db  *sql.DB
	qry *db.Queries

	mu      sync.Mutex
	pending []isqscrape.Term
}

func (s *TermStore) AddRange(terms []isqscrape.Term) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, terms...)
}

func (s *TermStore) All(ctx context.Context) ([]isqscrape.Term, error) {
	rows, err := s.qry.ListTerms(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]isqscrape.Term, 0, len(rows))
	seen := map[int64]bool{}
	for _, row := range rows {
		out = append(out, isqscrape.Term{Id: row.ID, Name: row.Name})
		seen[row.ID] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, term := range s.pending {
		if seen[term.Id] {
			continue
		}
		seen[term.Id] = true
		out = append(out, term)
	}
	return out, nil
}

func (s *TermStore) LookupName(ctx context.Context, name string) (outcome.Optional[isqscrape.Term], error) {
	s.mu.Lock()
	for _, term := range s.pending {
		if term.Name == name {
			s.mu.Unlock()
			return outcome.Some(term), nil
		}
	}
	s.mu.Unlock()

	row, err := s.qry.GetTermByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return outcome.None[isqscrape.Term](), nil
	}
	if err != nil {
		return outcome.None[isqscrape.Term](), err
	}
	return outcome.Some(isqscrape.Term{Id: row.ID, Name: row.Name}), nil
}

func (s *TermStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for _, term := range s.pending {
		err := txqry.CreateTerm(ctx, db.CreateTermParams{
			ID:   term.Id,
			Name: term.Name,
		})
		if err != nil {
			return err
		}
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	s.pending = nil
	return nil
}

type CourseStore struct {
	db  *sql.DB
	qry *db.Queries

	mu      sync.Mutex
	pending map[string]isqscrape.Course
}

// Add buffers a course. when the same code is added more than once the
// first one wins.
func (s *CourseStore) Add(course isqscrape.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		s.pending = map[string]isqscrape.Course{}
	}
	_, exists := s.pending[course.Code]
	if exists {
		return
	}
	s.pending[course.Code] = course
}

func (s *CourseStore) Codes(ctx context.Context) ([]string, error) {
	codes, err := s.qry.ListCourseCodes(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		seen[code] = true
	}
	s.mu.Lock()
	for code := range s.pending {
		if seen[code] {
			continue
		}
		codes = append(codes, code)
	}
	s.mu.Unlock()

	sort.Strings(codes)
	return codes, nil
}

func (s *CourseStore) LookupCode(ctx context.Context, code string) (outcome.Optional[isqscrape.Course], error) {
	s.mu.Lock()
	pending, ok := s.pending[code]
	s.mu.Unlock()
	if ok {
		return outcome.Some(pending), nil
	}

	row, err := s.qry.GetCourseByCode(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		return outcome.None[isqscrape.Course](), nil
	}
	if err != nil {
		return outcome.None[isqscrape.Course](), err
	}
	return outcome.Some(isqscrape.Course{
		Code:         row.Code,
		Name:         row.Name,
		DepartmentId: row.DepartmentID,
	}), nil
}

func (s *CourseStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for _, course := range s.pending {
		err := txqry.CreateCourse(ctx, db.CreateCourseParams{
			Code:         course.Code,
			Name:         course.Name,
			DepartmentID: course.DepartmentId,
		})
		if err != nil {
			return err
		}
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	s.pending = nil
	return nil
}

type ProfessorStore struct {
	db  *sql.DB
	qry *db.Queries

	mu      sync.Mutex
	pending map[string]isqscrape.Professor
}

func (s *ProfessorStore) Add(professor isqscrape.Professor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		s.pending = map[string]isqscrape.Professor{}
	}
	_, exists := s.pending[professor.NNumber]
	if exists {
		return
	}
	s.pending[professor.NNumber] = professor
}

func (s *ProfessorStore) Exists(ctx context.Context, nNumber string) (bool, error) {
	s.mu.Lock()
	_, pending := s.pending[nNumber]
	s.mu.Unlock()
	if pending {
		return true, nil
	}

	count, err := s.qry.ProfessorExists(ctx, nNumber)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *ProfessorStore) All(ctx context.Context) ([]isqscrape.Professor, error) {
	rows, err := s.qry.ListProfessors(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]isqscrape.Professor, 0, len(rows))
	seen := map[string]bool{}
	for _, row := range rows {
		out = append(out, isqscrape.Professor{
			NNumber:      row.NNumber,
			FirstName:    row.FirstName,
			LastName:     row.LastName,
			DepartmentId: row.DepartmentID,
		})
		seen[row.NNumber] = true
	}

	s.mu.Lock()
	pending := make([]isqscrape.Professor, 0, len(s.pending))
	for nNumber, professor := range s.pending {
		if seen[nNumber] {
			continue
		}
		pending = append(pending, professor)
	}
	s.mu.Unlock()

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].NNumber < pending[j].NNumber
	})
	return append(out, pending...), nil
}

func (s *ProfessorStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for _, professor := range s.pending {
		err := txqry.CreateProfessor(ctx, db.CreateProfessorParams{
			NNumber:      professor.NNumber,
			FirstName:    professor.FirstName,
			LastName:     professor.LastName,
			DepartmentID: professor.DepartmentId,
		})
		if err != nil {
			return err
		}
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	s.pending = nil
	return nil
}

type entryKey struct {
	TermId     int64
	Crn        string
	CourseCode string
}

type EntryStore struct {
	db  *sql.DB
	qry *db.Queries

	mu      sync.Mutex
	pending map[entryKey]isqscrape.Entry
}

// Add buffers an entry. when several entries share a section key the
// first one wins, matching what INSERT OR IGNORE does at persist time.
func (s *EntryStore) Add(entry isqscrape.Entry) {
	key := entryKey{TermId: entry.TermId, Crn: entry.Crn, CourseCode: entry.CourseCode}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		s.pending = map[entryKey]isqscrape.Entry{}
	}
	_, exists := s.pending[key]
	if exists {
		return
	}
	s.pending[key] = entry
}

// Count reports how many entries are known. an entry that is both
// pending and already persisted is counted twice, call Persist first
// for an exact figure.
func (s *EntryStore) Count(ctx context.Context) (int64, error) {
	count, err := s.qry.CountEntries(ctx)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	count += int64(len(s.pending))
	s.mu.Unlock()
	return count, nil
}

func (s *EntryStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for _, entry := range s.pending {
		err := txqry.CreateEntry(ctx, db.CreateEntryParams{
			TermID:           entry.TermId,
			Crn:              entry.Crn,
			CourseCode:       entry.CourseCode,
			ProfessorNNumber: entry.ProfessorNNumber,
			NEnrolled:        entry.NEnrolled,
			NResponded:       entry.NResponded,
			PctExcellent:     entry.PctExcellent,
			PctVeryGood:      entry.PctVeryGood,
			PctGood:          entry.PctGood,
			PctFair:          entry.PctFair,
			PctPoor:          entry.PctPoor,
			PctNa:            entry.PctNa,
			PctA:             entry.PctA,
			PctAMinus:        entry.PctAMinus,
			PctBPlus:         entry.PctBPlus,
			PctB:             entry.PctB,
			PctBMinus:        entry.PctBMinus,
			PctCPlus:         entry.PctCPlus,
			PctC:             entry.PctC,
			PctCMinus:        entry.PctCMinus,
			PctD:             entry.PctD,
			PctF:             entry.PctF,
			PctW:             entry.PctW,
			MeanGpa:          entry.MeanGpa,
		})
		if err != nil {
			return err
		}
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	s.pending = nil
	return nil
}

type Run struct {
	Id         string
	StartedAt  time.Time
	FinishedAt time.Time
	ErrorCount int64
}

type RunStore struct {
	qry *db.Queries
}

func (s *RunStore) Begin(ctx context.Context, id string, startedAt time.Time) error {
	return s.qry.CreateScrapeRun(ctx, db.CreateScrapeRunParams{
		ID:        id,
		StartedAt: startedAt.Unix(),
	})
}

func (s *RunStore) Finish(ctx context.Context, id string, finishedAt time.Time, errorCount int) error {
	return s.qry.FinishScrapeRun(ctx, db.FinishScrapeRunParams{
		FinishedAt: sql.NullInt64{Int64: finishedAt.Unix(), Valid: true},
		ErrorCount: int64(errorCount),
		ID:         id,
	})
}

func (s *RunStore) List(ctx context.Context) ([]Run, error) {
	rows, err := s.qry.ListScrapeRuns(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Run, 0, len(rows))
	for _, row := range rows {
		run := Run{
			Id:         row.ID,
			StartedAt:  timezone.FromUnix(row.StartedAt),
			ErrorCount: row.ErrorCount,
		}
		if row.FinishedAt.Valid {
			run.FinishedAt = timezone.FromUnix(row.FinishedAt.Int64)
		}
		out = append(out, run)
	}
	return out, nil
}
