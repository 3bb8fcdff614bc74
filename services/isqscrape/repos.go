package isqscrape

import (
	"context"
	"isqexplorer-backend/lib/outcome"

	"github.com/PuerkitoBio/goquery"
)

// DocumentFetcher is the http surface the scraper runs against.
// *isq.Client satisfies it.
type DocumentFetcher interface {
	Fetch(ctx context.Context, pageUrl string) (*goquery.Document, error)
	SubmitForm(ctx context.Context, pageUrl string, form map[string]string) (*goquery.Document, error)
}

// The repositories below buffer added entities in memory and write them
// out in one batch when Persist is called. reads observe both persisted
// and pending entities, so a scrape can build on what earlier stages
// added before anything hits storage. implementations serialize their
// own access, the scraper calls into them from many goroutines.

type DepartmentRepo interface {
	AddRange(departments []Department)
	All(ctx context.Context) ([]Department, error)
	Persist(ctx context.Context) error
}

type TermRepo interface {
	AddRange(terms []Term)
	All(ctx context.Context) ([]Term, error)
	LookupName(ctx context.Context, name string) (outcome.Optional[Term], error)
	Persist(ctx context.Context) error
}

type CourseRepo interface {
	Add(course Course)
	Codes(ctx context.Context) ([]string, error)
	LookupCode(ctx context.Context, code string) (outcome.Optional[Course], error)
	Persist(ctx context.Context) error
}

type ProfessorRepo interface {
	Add(professor Professor)
	Exists(ctx context.Context, nNumber string) (bool, error)
	All(ctx context.Context) ([]Professor, error)
	Persist(ctx context.Context) error
}

type EntryRepo interface {
	Add(entry Entry)
	Count(ctx context.Context) (int64, error)
	Persist(ctx context.Context) error
}
