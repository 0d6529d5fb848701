package fields

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRemoveChars = []string{"đ", "₫", "vnd", " "}

var testMultipliers = map[string]int64{
	"k":     1_000,
	"tr":    1_000_000,
	"triệu": 1_000_000,
}

func TestParseAmountEquivalentForms(t *testing.T) {
	// Every common way of writing 1.5M dong must land on the same integer
	inputs := []string{"1.500.000đ", "1500k", "1.5tr", "1500000", "1,500,000"}

	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			got, err := ParseAmount("total_payout_vnd", raw, testRemoveChars, testMultipliers)
			require.NoError(t, err)
			assert.Equal(t, int64(1_500_000), got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"5.000đ", 5_000},
		{"800k", 800_000},
		{"2 triệu", 2_000_000},
		{"2triệu", 2_000_000},
		{"1,5tr", 1_500_000},
		{"1.234.567 VND", 1_234_567},
		{"1.500.000,50", 1_500_000},
		{"₫250.000", 250_000},
		{"10000", 10_000},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount("total_payout_vnd", tt.raw, testRemoveChars, testMultipliers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmountErrors(t *testing.T) {
	for _, raw := range []string{"", "abc", "đ", "free"} {
		t.Run("raw="+raw, func(t *testing.T) {
			_, err := ParseAmount("total_payout_vnd", raw, testRemoveChars, testMultipliers)
			require.Error(t, err)
			assert.Equal(t, "Unable to parse amount: "+raw, err.Error())
		})
	}
}

func TestParseDateEquivalentForms(t *testing.T) {
	want := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"15/10/2025", "2025-10-15", "15-10-2025"} {
		t.Run(raw, func(t *testing.T) {
			got, err := ParseDate("start_date", raw, nil)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, got.Equal(want))
		})
	}
}

func TestParseDateBlank(t *testing.T) {
	got, err := ParseDate("end_date", "   ", nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("start_date", "invalid-date", nil)
	require.Error(t, err)
	assert.Equal(t, "Unable to parse date: invalid-date", err.Error())

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "start_date", perr.Field)
	assert.Equal(t, "invalid-date", perr.Raw)
}

func TestParseDateLayoutOrder(t *testing.T) {
	// DD/MM/YYYY is tried before MM/DD/YYYY
	got, err := ParseDate("start_date", "03/04/2025", nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC)))
}

func TestParseInt(t *testing.T) {
	three := 3
	tests := []struct {
		raw  string
		want *int
	}{
		{"3", &three},
		{"3.0", &three},
		{" 3 ", &three},
		{"", nil},
		{"   ", nil},
		{"NaN", nil},
		{"abc", nil},
	}

	for _, tt := range tests {
		t.Run("raw="+tt.raw, func(t *testing.T) {
			got := ParseInt(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}
