package tabular

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oceanstay/booking-service/internal/parsers/charset"
)

// Read parses raw file bytes into a Table, dispatching on extension.
// Anything that is not .xlsx is treated as CSV.
func Read(filename string, data []byte) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".xlsx" || ext == ".xlsm" {
		return ReadXLSX(filename, data)
	}
	return ReadCSV(filename, data)
}

// ReadCSV parses CSV bytes. The encoding and delimiter are detected; the
// first non-empty line is the header row.
func ReadCSV(filename string, data []byte) (*Table, error) {
	content, err := charset.DecodeAuto(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := make([]string, 0, 64)
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}

	delim := DetectDelimiter(content)

	headers := SplitLine(lines[0], delim, '"')
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{
		Filename: filename,
		Headers:  headers,
		Rows:     make([][]string, 0, len(lines)-1),
	}

	for _, line := range lines[1:] {
		row := SplitLine(line, delim, '"')
		if isEmptyRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
