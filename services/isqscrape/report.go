package isqscrape

import (
	"context"
	"fmt"
	"io"
	"net/smtp"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

// RunReport summarizes one scrape run: how much of each entity kind is
// known after the run and every recoverable failure along the way.
type RunReport struct {
	Started  time.Time
	Finished time.Time

	Departments int
	Terms       int
	Courses     int
	Professors  int
	Entries     int64

	Errors []ScrapeError
}

func (r *RunReport) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

func (r *RunReport) ErrorCount(severity Severity) int {
	count := 0
	for _, err := range r.Errors {
		if err.Severity == severity {
			count++
		}
	}
	return count
}

// WriteSummary renders the report as text tables.
func (r *RunReport) WriteSummary(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Departments", "Terms", "Courses", "Professors", "Entries", "Errors", "Duration"})
	t.AppendRow(table.Row{
		r.Departments, r.Terms, r.Courses, r.Professors, r.Entries,
		fmt.Sprintf("%d (%d info)", len(r.Errors), r.ErrorCount(SeverityInfo)),
		r.Duration().Round(time.Second),
	})
	t.Render()

	if len(r.Errors) == 0 {
		return
	}
	e := table.NewWriter()
	e.SetOutputMirror(w)
	e.SetStyle(table.StyleRounded)
	e.AppendHeader(table.Row{"Severity", "Stage", "Department", "Term", "Professor", "Error"})
	for _, err := range r.Errors {
		e.AppendRow(table.Row{err.Severity, err.Stage, err.Department, err.Term, err.Professor, err.Err})
	}
	e.Render()
}

type SmtpConfig struct {
	Server       string
	Port         int
	EmailAddress string
	Password     string
	Recipients   []string
}

const emailErrorLimit = 25

// EmailReport sends the run summary to the configured recipients.
func EmailReport(ctx context.Context, config SmtpConfig, report *RunReport) error {
	ctx, span := tracer.Start(ctx, "EmailReport")
	defer span.End()

	var body strings.Builder
	fmt.Fprintf(&body, "Scrape run finished in %s.\n\n", report.Duration().Round(time.Second))
	fmt.Fprintf(&body, "Departments: %d\n", report.Departments)
	fmt.Fprintf(&body, "Terms:       %d\n", report.Terms)
	fmt.Fprintf(&body, "Courses:     %d\n", report.Courses)
	fmt.Fprintf(&body, "Professors:  %d\n", report.Professors)
	fmt.Fprintf(&body, "Entries:     %d\n", report.Entries)

	if len(report.Errors) > 0 {
		fmt.Fprintf(&body, "\n%d errors (%d informational):\n", len(report.Errors), report.ErrorCount(SeverityInfo))
		for i, err := range report.Errors {
			if i == emailErrorLimit {
				fmt.Fprintf(&body, "... and %d more\n", len(report.Errors)-emailErrorLimit)
				break
			}
			fmt.Fprintf(&body, "%s\n", err.Error())
		}
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("ISQ Explorer <%s>", config.EmailAddress)
	mail.To = config.Recipients
	mail.Subject = fmt.Sprintf(
		"ISQ scrape report: %d entries, %d errors",
		report.Entries, len(report.Errors),
	)
	mail.Text = []byte(body.String())

	err := mail.Send(
		fmt.Sprintf("%s:%d", config.Server, config.Port),
		smtp.PlainAuth("", config.EmailAddress, config.Password, config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(fmt.Sprintf("%s:%d", config.Server, config.Port), nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send report email")
		return err
	}
	return nil
}
