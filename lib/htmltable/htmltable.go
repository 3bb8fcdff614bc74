package htmltable

import (
	"fmt"
	"isqexplorer-backend/lib/htmlutil"
	"isqexplorer-backend/lib/textutil"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ColumnError reports a lookup of a column title the table does not
// have. it is a distinct type so callers can branch on it without
// string matching.
type ColumnError struct {
	Title   string
	Columns []string
}

func (e ColumnError) Error() string {
	return fmt.Sprintf(
		"no column titled %q, table has columns [%s]",
		e.Title,
		strings.Join(e.Columns, ", "),
	)
}

// Table is a parsed html data table: the first row provides the
// column titles, every following row provides cells. it is immutable
// after Parse.
type Table struct {
	titles []string
	index  map[string]int
	rows   []Row
	empty  *goquery.Selection
}

type Row struct {
	table *Table
	texts []string
	cells []*goquery.Selection
}

// Parse reads sel, a selection holding a single table element. column
// titles are cleaned before use and must be non blank and distinct.
func Parse(sel *goquery.Selection) (*Table, error) {
	trs := sel.Find("tr")
	if len(trs.Nodes) == 0 {
		return nil, fmt.Errorf("table has no rows")
	}

	t := &Table{
		index: map[string]int{},
		empty: sel.Slice(0, 0),
	}

	header := trs.First()
	header.ChildrenFiltered("th, td").Each(func(i int, cell *goquery.Selection) {
		title := textutil.CleanText(htmlutil.GetText(cell.Nodes[0]))
		t.titles = append(t.titles, title)
	})
	for i, title := range t.titles {
		if title == "" {
			return nil, fmt.Errorf("blank column title at index %d", i)
		}
		_, seen := t.index[title]
		if seen {
			return nil, fmt.Errorf("duplicate column title %q", title)
		}
		t.index[title] = i
	}

	trs.Slice(1, len(trs.Nodes)).Each(func(_ int, tr *goquery.Selection) {
		row := Row{table: t}
		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			row.texts = append(row.texts, textutil.CleanText(htmlutil.GetText(cell.Nodes[0])))
			row.cells = append(row.cells, cell)
		})
		t.rows = append(t.rows, row)
	})

	return t, nil
}

func (t *Table) Titles() []string {
	return t.titles
}

func (t *Table) HasColumn(title string) bool {
	_, ok := t.index[title]
	return ok
}

func (t *Table) Rows() []Row {
	return t.rows
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Text returns the cleaned text of the cell under the given column
// title. a row shorter than the header yields blank text, a title the
// table does not have yields a ColumnError.
func (r Row) Text(title string) (string, error) {
	idx, ok := r.table.index[title]
	if !ok {
		return "", ColumnError{Title: title, Columns: r.table.titles}
	}
	if idx >= len(r.texts) {
		return "", nil
	}
	return r.texts[idx], nil
}

// Cell returns the cell selection under the given column title, for
// callers that need more than its text. a row shorter than the header
// yields an empty selection.
func (r Row) Cell(title string) (*goquery.Selection, error) {
	idx, ok := r.table.index[title]
	if !ok {
		return nil, ColumnError{Title: title, Columns: r.table.titles}
	}
	if idx >= len(r.cells) {
		return r.table.empty, nil
	}
	return r.cells[idx], nil
}

func (r Row) Int(title string) (int64, error) {
	text, err := r.Text(title)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: parse int %q: %w", title, text, err)
	}
	return value, nil
}

func (r Row) Float(title string) (float64, error) {
	text, err := r.Text(title)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: parse float %q: %w", title, text, err)
	}
	return value, nil
}
