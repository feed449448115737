// Package termtable prints aligned text tables for terminals, measuring
// cells by display width so CJK titles line up.
package termtable

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// MaxCellWidth truncates cells wider than this many columns.
const MaxCellWidth = 40

// Table accumulates rows before printing.
type Table struct {
	headers []string
	rows    [][]string
	right   map[int]bool
}

// New returns a table with the given header row.
func New(headers ...string) *Table {
	return &Table{headers: headers, right: make(map[int]bool)}
}

// AlignRight right-aligns the given column indexes, for numbers.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

// Append adds a row. Missing cells print empty, extra cells are dropped.
func (t *Table) Append(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = runewidth.Truncate(cells[i], MaxCellWidth, "…")
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows appended.
func (t *Table) Len() int { return len(t.rows) }

// Render writes the header, a separator and every row to w.
func (t *Table) Render(w io.Writer) error {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	if err := t.line(w, t.headers, widths); err != nil {
		return err
	}
	sep := make([]string, len(widths))
	for i, wd := range widths {
		sep[i] = strings.Repeat("-", wd)
	}
	if err := t.line(w, sep, widths); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := t.line(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) line(w io.Writer, cells []string, widths []int) error {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if t.right[i] {
			parts[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	return err
}
