package tabular

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX parses the first sheet of an Excel workbook into a Table
func ReadXLSX(filename string, data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", filename, err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheetList[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %s: %w", sheetList[0], err)
	}

	// Skip leading empty rows before the header
	start := 0
	for start < len(rows) && isEmptyRow(rows[start]) {
		start++
	}
	if start >= len(rows) {
		return nil, ErrEmptyFile
	}

	headers := make([]string, len(rows[start]))
	for i, cell := range rows[start] {
		headers[i] = strings.TrimSpace(cell)
	}

	table := &Table{
		Filename: filename,
		Headers:  headers,
		Rows:     make([][]string, 0, len(rows)-start-1),
	}

	for _, row := range rows[start+1:] {
		if isEmptyRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
