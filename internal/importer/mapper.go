package importer

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/oceanstay/booking-service/internal/mapping"
	"github.com/oceanstay/booking-service/internal/parsers/fields"
	"github.com/oceanstay/booking-service/internal/parsers/tabular"
)

// Mapper converts one raw tabular row into a canonical Row
type Mapper struct {
	mapping *mapping.Mapping
}

// NewMapper creates a row mapper driven by the loaded mapping document
func NewMapper(m *mapping.Mapping) *Mapper {
	return &Mapper{mapping: m}
}

// Map dispatches on source. Parse failures surface as errors; the caller
// records them and continues with the next row.
func (m *Mapper) Map(source string, table *tabular.Table, raw []string) (*Row, error) {
	switch source {
	case SourceOffline:
		return m.mapOffline(table, raw)
	default:
		return m.mapOfficial(table, raw)
	}
}

// mapOfficial maps a row of the official channel CSV via the alias table
func (m *Mapper) mapOfficial(table *tabular.Table, raw []string) (*Row, error) {
	row := &Row{Raw: table.RowMap(raw)}

	for _, field := range m.mapping.OfficialFields() {
		idx := resolveHeader(table.Headers, m.mapping.OfficialAliases(field))
		if idx < 0 {
			continue
		}
		value := table.Cell(raw, idx)
		if value == "" {
			continue
		}
		if err := m.setField(row, field, value); err != nil {
			return nil, err
		}
	}

	if row.Status == "" {
		row.Status = "confirmed"
	}
	if row.BookingDate == nil {
		today := todayUTC()
		row.BookingDate = &today
	}

	return row, nil
}

// mapOffline maps a row of an offline channel sheet via the
// offline_to_airbnb field map, then applies the offline defaults
func (m *Mapper) mapOffline(table *tabular.Table, raw []string) (*Row, error) {
	row := &Row{Raw: table.RowMap(raw)}

	for header, field := range m.mapping.OfflineFieldMap() {
		idx := table.HeaderIndex(header)
		if idx < 0 {
			continue
		}
		value := table.Cell(raw, idx)
		if value == "" {
			continue
		}
		if err := m.setField(row, field, value); err != nil {
			return nil, err
		}
	}

	if row.NumNights == nil && row.StartDate != nil && row.EndDate != nil {
		nights := int(row.EndDate.Sub(*row.StartDate).Hours() / 24)
		row.NumNights = &nights
	}

	if row.Status == "" {
		row.Status = "confirmed"
	}
	if row.BookingDate == nil {
		today := todayUTC()
		row.BookingDate = &today
	}
	if row.ConfirmationCode == nil {
		code := offlineConfirmationCode()
		row.ConfirmationCode = &code
	}

	return row, nil
}

// setField assigns one canonical field, applying the type-appropriate parser
func (m *Mapper) setField(row *Row, field, value string) error {
	switch field {
	case "start_date", "end_date", "booking_date":
		t, err := fields.ParseDate(field, value, m.mapping.DateLayouts())
		if err != nil {
			return err
		}
		switch field {
		case "start_date":
			row.StartDate = t
		case "end_date":
			row.EndDate = t
		case "booking_date":
			row.BookingDate = t
		}
	case "total_payout_vnd":
		amount, err := fields.ParseAmount(field, value, m.mapping.RemoveChars(), m.mapping.Multipliers())
		if err != nil {
			return err
		}
		row.TotalPayoutVND = &amount
	case "num_nights":
		row.NumNights = fields.ParseInt(value)
	case "num_adults":
		row.NumAdults = fields.ParseInt(value)
	case "num_children":
		row.NumChildren = fields.ParseInt(value)
	case "num_infants":
		row.NumInfants = fields.ParseInt(value)
	case "confirmation_code":
		row.ConfirmationCode = &value
	case "external_ref":
		row.ExternalRef = &value
	case "guest_name":
		row.GuestName = &value
	case "guest_contact":
		row.GuestContact = &value
	case "status":
		row.Status = value
	case "listing_raw":
		row.ListingRaw = &value
	case "notes":
		row.Notes = &value
	case "channel":
		// A channel column in the sheet overrides the request-level label
		row.Channel = strings.ToLower(value)
	}
	return nil
}

// offlineConfirmationCode generates an opaque OFF-XXXXXXXX token
func offlineConfirmationCode() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return "OFF-" + strings.ToUpper(hex.EncodeToString(buf))
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
