// Package fields parses the scalar field formats found in Vietnamese
// booking exports: dates in several dialects, VND amounts with locale
// multipliers, and lenient integers.
package fields

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ParseError describes a field value that could not be coerced. The message
// is part of the caller-facing contract and must stay stable.
type ParseError struct {
	Field string
	Raw   string
	msg   string
}

func (e *ParseError) Error() string {
	return e.msg
}

// DefaultDateLayouts are tried in order when no mapping document overrides them
var DefaultDateLayouts = []string{
	"2006-01-02", // YYYY-MM-DD
	"02/01/2006", // DD/MM/YYYY
	"02-01-2006", // DD-MM-YYYY
	"01/02/2006", // MM/DD/YYYY
}

// ParseDate parses a date string against the ordered layouts. Empty or
// whitespace-only input yields (nil, nil).
func ParseDate(field, raw string, layouts []string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return &t, nil
		}
	}

	return nil, &ParseError{
		Field: field,
		Raw:   raw,
		msg:   fmt.Sprintf("Unable to parse date: %s", raw),
	}
}

// ParseAmount parses a VND amount string into an integer number of dong.
// Handles thousand separators in both dialects ("1.500.000" and "1,500,000"),
// currency marks, and multiplier suffixes ("1500k", "1.5tr", "2 triệu").
func ParseAmount(field, raw string, removeChars []string, multipliers map[string]int64) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, parseAmountError(field, raw)
	}

	// Multiplier suffix, longest first so "triệu" wins over "tr"
	factor := int64(1)
	for _, suffix := range suffixesByLength(multipliers) {
		if strings.HasSuffix(s, suffix) {
			factor = multipliers[suffix]
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case factor > 1 && hasComma:
		// "1,5tr": comma is the decimal mark
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma && hasDot:
		// "1.500.000,50": dots group thousands, comma is decimal
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		// "1,500,000": commas group thousands
		s = strings.ReplaceAll(s, ",", "")
	case hasDot && factor == 1:
		// "1.500.000": dots group thousands; with a multiplier the dot
		// stays decimal ("1.5tr")
		s = strings.ReplaceAll(s, ".", "")
	}

	for _, c := range removeChars {
		s = strings.ReplaceAll(s, strings.ToLower(c), "")
	}
	s = strings.TrimSpace(s)

	if s == "" {
		return 0, parseAmountError(field, raw)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, parseAmountError(field, raw)
	}

	return int64(f * float64(factor)), nil
}

// ParseInt coerces ints, float strings, and int strings; blank or
// unparseable input yields nil. The caller decides whether missing is
// acceptable, so this never fails.
func ParseInt(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if n, err := strconv.Atoi(trimmed); err == nil {
		return &n
	}

	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(f)
	return &n
}

func parseAmountError(field, raw string) *ParseError {
	return &ParseError{
		Field: field,
		Raw:   raw,
		msg:   fmt.Sprintf("Unable to parse amount: %s", raw),
	}
}

func suffixesByLength(multipliers map[string]int64) []string {
	suffixes := make([]string, 0, len(multipliers))
	for s := range multipliers {
		suffixes = append(suffixes, s)
	}
	sort.Slice(suffixes, func(i, j int) bool {
		if len(suffixes[i]) != len(suffixes[j]) {
			return len(suffixes[i]) > len(suffixes[j])
		}
		return suffixes[i] < suffixes[j]
	})
	return suffixes
}
