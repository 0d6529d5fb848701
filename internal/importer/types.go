// Package importer drives a parsed booking table through mapping,
// deduplication, and validation, producing canonical rows and a per-run
// error list.
package importer

import (
	"time"

	"github.com/oceanstay/booking-service/internal/listing"
)

// Source values for a booking file
const (
	SourceOfficial = "official"
	SourceOffline  = "offline"
)

// Row is a canonical booking row ready for persistence. Optional fields
// are pointers so missing and zero stay distinguishable for validation.
type Row struct {
	ConfirmationCode *string
	Source           string
	Channel          string
	ExternalRef      *string
	GuestName        *string
	GuestContact     *string
	StartDate        *time.Time
	EndDate          *time.Time
	NumNights        *int
	NumAdults        *int
	NumChildren      *int
	NumInfants       *int
	TotalPayoutVND   *int64
	Status           string
	BookingDate      *time.Time
	ListingRaw       *string
	Notes            *string
	ImportedAt       time.Time
	IngestionID      string
	RowHash          string

	// Listing is the pure resolution of ListingRaw; catalog writes happen
	// only on the commit path.
	Listing *listing.Resolution

	// RowIndex is the 0-based position within the source file.
	RowIndex int
	// Raw preserves the original header → value cells for error artifacts.
	Raw map[string]string
}

// RowError records a rejected row. Failures are data, not errors: they are
// collected and the batch continues.
type RowError struct {
	RowIndex  int               `json:"row_index"`
	Raw       map[string]string `json:"original_data"`
	Reason    string            `json:"error_reason"`
	Timestamp time.Time         `json:"timestamp"`
}

// Stats are the per-run counters. Total == Valid + Invalid + Duplicates.
type Stats struct {
	Total      int `json:"total"`
	Valid      int `json:"valid"`
	Invalid    int `json:"invalid"`
	Duplicates int `json:"duplicates"`
}

// Result is the orchestrator output for one file
type Result struct {
	Rows        []*Row
	IngestionID string
	Stats       Stats
	Errors      []RowError
}

// StringPtr returns a pointer to the given string, nil when blank
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
