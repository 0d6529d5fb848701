package database

import (
	"time"
)

// Channel represents a booking channel (Airbnb, Offline, etc.)
type Channel struct {
	ID          int64     `json:"id"`
	ChannelName string    `json:"channel_name"` // Airbnb, Offline
	CreatedAt   time.Time `json:"created_at"`
}

// Building represents an apartment building
type Building struct {
	ID           int64     `json:"id"`
	BuildingName string    `json:"building_name"` // Avalon, OceanView, etc.
	BuildingCode *string   `json:"building_code"` // AVA, OCE, etc.
	CreatedAt    time.Time `json:"created_at"`
}

// Property represents a rentable unit inside a building
type Property struct {
	ID            int64     `json:"id"`
	PropertyName  *string   `json:"property_name"`  // Internal name
	AirbnbName    *string   `json:"airbnb_name"`    // Listing title as it appears on the channel
	BuildingID    *int64    `json:"building_id"`    // FK to buildings.id
	BuildingName  *string   `json:"building_name"`
	BuildingCode  *string   `json:"building_code"`
	UnitNumber    *string   `json:"unit_number"`    // "D.3", "5.3", etc.
	UnitShort     *string   `json:"unit_short"`     // "403", "503", etc.
	PropertyShort *string   `json:"property_short"` // "AVA-403"
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Booking represents a canonical booking row
type Booking struct {
	ID               int64      `json:"id"`
	ConfirmationCode *string    `json:"confirmation_code"` // Channel code or OFF-XXXXXXXX
	Source           string     `json:"source"`            // 'official' | 'offline'
	Channel          string     `json:"channel"`           // official_csv, facebook, zalo, ...
	ExternalRef      *string    `json:"external_ref"`      // Partner-side reference
	PropertyID       *int64     `json:"property_id"`       // FK to properties.id
	ChannelID        *int64     `json:"channel_id"`        // FK to channels.id
	GuestName        string     `json:"guest_name"`
	GuestContact     *string    `json:"guest_contact"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	NumNights        *int       `json:"num_nights"`
	TotalPayoutVND   int64      `json:"total_payout_vnd"`
	Status           string     `json:"status"` // default 'confirmed'
	BookingDate      time.Time  `json:"booking_date"`
	ListingRaw       *string    `json:"listing_raw"` // Original free-text listing name
	Notes            *string    `json:"notes"`
	ImportedAt       time.Time  `json:"imported_at"`
	IngestionID      string     `json:"ingestion_id"` // FK to import_runs.ingestion_id
	RowHash          string     `json:"row_hash"`     // SHA-256 hex, idempotency key
}

// ImportRun represents one ingested file (audit log)
type ImportRun struct {
	ID                    int64      `json:"id"`
	Filename              string     `json:"filename"`
	Source                string     `json:"source"`  // 'official' | 'offline'
	Channel               string     `json:"channel"`
	IngestionID           string     `json:"ingestion_id"` // UUIDv4, unique
	Status                string     `json:"status"`       // 'running', 'completed', 'failed', 'interrupted'
	RowsTotal             int        `json:"rows_total"`
	RowsInserted          int        `json:"rows_inserted"`
	RowsUpdated           int        `json:"rows_updated"`
	RowsSkipped           int        `json:"rows_skipped"`
	RowsErrors            int        `json:"rows_errors"`
	FileSizeBytes         int64      `json:"file_size_bytes"`
	ProcessingTimeSeconds float64    `json:"processing_time_seconds"`
	ErrorLogFile          *string    `json:"error_log_file"` // Artifact key, when errors occurred
	CreatedAt             time.Time  `json:"created_at"`
	CompletedAt           *time.Time `json:"completed_at"`
}
