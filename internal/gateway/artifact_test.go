package gateway

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanstay/booking-service/internal/importer"
)

func TestRenderErrorCSV(t *testing.T) {
	ts := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	errs := []importer.RowError{
		{
			RowIndex:  0,
			Raw:       map[string]string{"Tên khách": "Nguyễn Văn A", "Số tiền": "abc"},
			Reason:    "Unable to parse amount: abc",
			Timestamp: ts,
		},
		{
			RowIndex:  3,
			Raw:       map[string]string{"Tên khách": "Trần B"},
			Reason:    "Duplicate row in current batch",
			Timestamp: ts,
		},
	}

	content, err := renderErrorCSV(errs)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(content))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"row_index", "original_data", "error_reason", "timestamp"}, records[0])

	assert.Equal(t, "0", records[1][0])
	assert.Contains(t, records[1][1], "Nguyễn Văn A")
	assert.Equal(t, "Unable to parse amount: abc", records[1][2])
	assert.Equal(t, "2025-10-20T12:00:00Z", records[1][3])

	assert.Equal(t, "3", records[2][0])
	assert.Equal(t, "Duplicate row in current batch", records[2][2])
}

func TestRenderErrorCSVEmpty(t *testing.T) {
	content, err := renderErrorCSV(nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Len(t, lines, 1)
}
