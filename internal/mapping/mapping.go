// Package mapping loads the mapping document that drives the booking
// importer: header aliases, the offline field map, date and amount formats,
// and validation bounds. Loaded once at startup; immutable afterwards.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Document is the serialized mapping config
type Document struct {
	// OfficialAliases maps a canonical field to an ordered list of header
	// aliases for the official channel CSV. The first alias present wins.
	OfficialAliases map[string][]string `json:"official_aliases"`
	// OfflineToAirbnb maps an offline sheet header to a canonical field.
	OfflineToAirbnb map[string]string `json:"offline_to_airbnb"`
	// DateFormats are ordered format patterns (YYYY-MM-DD style tokens).
	DateFormats []string `json:"date_formats"`
	// AmountFormats configures the VND amount parser.
	AmountFormats AmountFormats `json:"amount_formats"`
	// ValidationRules carries the row validation bounds.
	ValidationRules ValidationRules `json:"validation_rules"`
}

// AmountFormats configures currency parsing
type AmountFormats struct {
	RemoveChars []string         `json:"remove_chars"`
	Multipliers map[string]int64 `json:"multipliers"`
}

// ValidationRules carries business validation bounds
type ValidationRules struct {
	ADRRange       [2]int64 `json:"adr_range"`
	NightsRange    [2]int   `json:"nights_range"`
	RequiredFields []string `json:"required_fields"`
}

// Mapping is the loaded, validated document with date patterns converted
// to Go layouts
type Mapping struct {
	doc         Document
	dateLayouts []string
}

// Default returns the built-in mapping for the Vietnamese booking exports
func Default() *Mapping {
	m, err := fromDocument(defaultDocument())
	if err != nil {
		panic(fmt.Sprintf("built-in mapping document invalid: %v", err))
	}
	return m
}

// Load reads a mapping document from path. An empty path returns the
// built-in defaults. A missing or malformed document is an error; the
// caller treats it as fatal.
func Load(path string) (*Mapping, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse mapping document: %w", err)
	}

	return fromDocument(doc)
}

func fromDocument(doc Document) (*Mapping, error) {
	if len(doc.OfflineToAirbnb) == 0 {
		return nil, fmt.Errorf("mapping document missing offline_to_airbnb")
	}
	if len(doc.DateFormats) == 0 {
		return nil, fmt.Errorf("mapping document missing date_formats")
	}
	if len(doc.ValidationRules.RequiredFields) == 0 {
		return nil, fmt.Errorf("mapping document missing validation_rules.required_fields")
	}
	if doc.ValidationRules.ADRRange[0] >= doc.ValidationRules.ADRRange[1] {
		return nil, fmt.Errorf("mapping document has invalid adr_range")
	}
	if doc.ValidationRules.NightsRange[0] >= doc.ValidationRules.NightsRange[1] {
		return nil, fmt.Errorf("mapping document has invalid nights_range")
	}

	layouts := make([]string, 0, len(doc.DateFormats))
	for _, pattern := range doc.DateFormats {
		layout, err := patternToLayout(pattern)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, layout)
	}

	return &Mapping{doc: doc, dateLayouts: layouts}, nil
}

// patternToLayout converts a YYYY/MM/DD token pattern to a Go time layout
func patternToLayout(pattern string) (string, error) {
	layout := pattern
	layout = strings.ReplaceAll(layout, "YYYY", "2006")
	layout = strings.ReplaceAll(layout, "MM", "01")
	layout = strings.ReplaceAll(layout, "DD", "02")
	if strings.ContainsAny(layout, "YMD") {
		return "", fmt.Errorf("unsupported date format pattern: %s", pattern)
	}
	return layout, nil
}

// OfficialAliases returns the ordered alias list for a canonical field
func (m *Mapping) OfficialAliases(field string) []string {
	return m.doc.OfficialAliases[field]
}

// OfficialFields returns all canonical fields of the official alias table
func (m *Mapping) OfficialFields() []string {
	fields := make([]string, 0, len(m.doc.OfficialAliases))
	for f := range m.doc.OfficialAliases {
		fields = append(fields, f)
	}
	return fields
}

// OfflineFieldMap returns the offline header → canonical field map
func (m *Mapping) OfflineFieldMap() map[string]string {
	out := make(map[string]string, len(m.doc.OfflineToAirbnb))
	for k, v := range m.doc.OfflineToAirbnb {
		out[k] = v
	}
	return out
}

// DateLayouts returns the ordered Go date layouts
func (m *Mapping) DateLayouts() []string {
	return m.dateLayouts
}

// RemoveChars returns the amount parser strip set
func (m *Mapping) RemoveChars() []string {
	return m.doc.AmountFormats.RemoveChars
}

// Multipliers returns the amount multiplier suffixes
func (m *Mapping) Multipliers() map[string]int64 {
	return m.doc.AmountFormats.Multipliers
}

// Rules returns the validation bounds
func (m *Mapping) Rules() ValidationRules {
	return m.doc.ValidationRules
}

func defaultDocument() Document {
	return Document{
		OfficialAliases: map[string][]string{
			"confirmation_code": {"Confirmation code", "Confirmation Code"},
			"status":            {"Status"},
			"guest_name":        {"Guest name", "Guest Name", "Name"},
			"guest_contact":     {"Contact", "Phone"},
			"num_adults":        {"# of adults", "Adults"},
			"num_children":      {"# of children", "Children"},
			"num_infants":       {"# of infants", "Infants"},
			"start_date":        {"Start date", "Start Date", "Check-in"},
			"end_date":          {"End date", "End Date", "Checkout", "Check-out"},
			"num_nights":        {"# of nights", "Nights"},
			"booking_date":      {"Booked", "Booked date"},
			"listing_raw":       {"Listing"},
			"total_payout_vnd":  {"Earnings", "Amount", "Payout"},
		},
		OfflineToAirbnb: map[string]string{
			"Tên khách":     "guest_name",
			"Số điện thoại": "guest_contact",
			"Số đêm":        "num_nights",
			"Ngày checkin":  "start_date",
			"Ngày checkout": "end_date",
			"Số tiền":       "total_payout_vnd",
			"Ghi chú":       "notes",
			"Mã đặt":        "external_ref",
			"Căn hộ":        "listing_raw",
			"Kênh":          "channel",
		},
		DateFormats: []string{"YYYY-MM-DD", "DD/MM/YYYY", "DD-MM-YYYY", "MM/DD/YYYY"},
		AmountFormats: AmountFormats{
			RemoveChars: []string{"đ", "₫", "vnd", " "},
			Multipliers: map[string]int64{
				"k":     1_000,
				"tr":    1_000_000,
				"triệu": 1_000_000,
			},
		},
		ValidationRules: ValidationRules{
			ADRRange:       [2]int64{10_000, 10_000_000},
			NightsRange:    [2]int{1, 365},
			RequiredFields: []string{"guest_name", "start_date", "total_payout_vnd"},
		},
	}
}
