package isqscrape

import (
	"fmt"
	"strings"
	"sync"
)

type Severity int

const (
	// SeverityInfo marks expected conditions worth reporting, like a
	// department/term pair with no course offerings.
	SeverityInfo Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// ScrapeError is one recoverable failure observed during a run, tagged
// with enough context to find the page it came from.
type ScrapeError struct {
	Severity   Severity
	Stage      string
	Department string
	Term       string
	Professor  string
	Url        string
	Err        error
}

func (e ScrapeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Severity, e.Stage)
	if e.Department != "" {
		fmt.Fprintf(&b, " department=%q", e.Department)
	}
	if e.Term != "" {
		fmt.Fprintf(&b, " term=%q", e.Term)
	}
	if e.Professor != "" {
		fmt.Fprintf(&b, " professor=%q", e.Professor)
	}
	if e.Url != "" {
		fmt.Fprintf(&b, " url=%q", e.Url)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e ScrapeError) Unwrap() error {
	return e.Err
}

// ErrorBag collects recoverable failures from concurrent scrape units.
// it must only be iterated after the run's barrier, once every unit has
// finished.
type ErrorBag struct {
	mu     sync.Mutex
	errors []ScrapeError
}

func (b *ErrorBag) Add(err ScrapeError) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errors = append(b.errors, err)
}

func (b *ErrorBag) Errors() []ScrapeError {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ScrapeError, len(b.errors))
	copy(out, b.errors)
	return out
}

func (b *ErrorBag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.errors)
}

func (b *ErrorBag) Count(severity Severity) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	count := 0
	for _, err := range b.errors {
		if err.Severity == severity {
			count++
		}
	}
	return count
}
