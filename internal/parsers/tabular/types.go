// Package tabular reads CSV and XLSX booking exports into a uniform
// header + rows shape, independent of dialect.
package tabular

import (
	"errors"
	"strings"
)

// ErrEmptyFile is returned for files with no header row and no data rows.
var ErrEmptyFile = errors.New("Empty CSV file")

// Table is a parsed tabular file
type Table struct {
	Filename string
	Headers  []string
	Rows     [][]string
}

// Cell returns the trimmed cell at idx in row, or "" when out of range
func (t *Table) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// HeaderIndex returns the index of an exact header match, or -1
func (t *Table) HeaderIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// RowMap returns the row as a header → value map, skipping blank cells
func (t *Table) RowMap(row []string) map[string]string {
	m := make(map[string]string, len(t.Headers))
	for i, h := range t.Headers {
		if v := t.Cell(row, i); v != "" {
			m[h] = v
		}
	}
	return m
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
