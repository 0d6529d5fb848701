// Package gateway is the persistence boundary of the booking importer. It
// exposes two operations: Validate (dry-run, no store writes) and Upload
// (commit with per-file transactions and import-run records).
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/oceanstay/booking-service/internal/catalog"
	"github.com/oceanstay/booking-service/internal/importer"
	"github.com/oceanstay/booking-service/internal/mapping"
	"github.com/oceanstay/booking-service/internal/metrics"
	"github.com/oceanstay/booking-service/internal/parsers/tabular"
	"github.com/oceanstay/booking-service/internal/storage"
)

const (
	maxSampleRows   = 3
	maxSampleErrors = 5
)

// File is one uploaded file
type File struct {
	Name string
	Data []byte
}

// FileSummary is the per-file outcome of an upload or validation
type FileSummary struct {
	Filename       string             `json:"filename"`
	Success        bool               `json:"success"`
	Error          string             `json:"error,omitempty"`
	Warning        string             `json:"warning,omitempty"`
	IngestionID    string             `json:"ingestion_id,omitempty"`
	Stats          importer.Stats     `json:"stats"`
	RowsInserted   int                `json:"rows_inserted"`
	RowsSkipped    int                `json:"rows_skipped"`
	ProcessingTime float64            `json:"processing_time"`
	ErrorLogFile   *string            `json:"error_log_file,omitempty"`
	SampleRows     []*importer.Row    `json:"sample_rows,omitempty"`
	SampleErrors   []importer.RowError `json:"sample_errors,omitempty"`
}

// Summary aggregates an upload or validation across files
type Summary struct {
	FilesProcessed int           `json:"files_processed"`
	TotalRows      int           `json:"total_rows"`
	ValidRows      int           `json:"valid_rows"`
	InvalidRows    int           `json:"invalid_rows"`
	DuplicateRows  int           `json:"duplicate_rows"`
	RowsInserted   int           `json:"rows_inserted"`
	RowsSkipped    int           `json:"rows_skipped"`
	ProcessingTime float64       `json:"processing_time"`
	Files          []FileSummary `json:"files"`
}

// Gateway drives the importer against the store
type Gateway struct {
	pool     *pgxpool.Pool
	catalog  *catalog.Catalog
	pipeline *importer.Pipeline
	store    storage.Storage
}

// New creates a Gateway
func New(pool *pgxpool.Pool, m *mapping.Mapping, store storage.Storage) *Gateway {
	return &Gateway{
		pool:     pool,
		catalog:  catalog.New(pool),
		pipeline: importer.NewPipeline(m),
		store:    store,
	}
}

// Validate dry-runs the pipeline over each file. Nothing is written: no
// bookings, no catalog rows, no import runs, no artifacts.
func (g *Gateway) Validate(ctx context.Context, files []File, source, channel string, overrides map[string]string) *Summary {
	summary := &Summary{Files: make([]FileSummary, 0, len(files))}
	start := time.Now()

	for _, file := range files {
		fs := FileSummary{Filename: file.Name}

		table, err := tabular.Read(file.Name, file.Data)
		if err != nil {
			fs.Error = err.Error()
			summary.Files = append(summary.Files, fs)
			continue
		}
		if len(table.Rows) == 0 {
			fs.Error = tabular.ErrEmptyFile.Error()
			summary.Files = append(summary.Files, fs)
			continue
		}

		result := g.pipeline.Process(table, source, channel, overrides)

		fs.Success = true
		fs.IngestionID = result.IngestionID
		fs.Stats = result.Stats
		fs.SampleRows = result.Rows[:min(maxSampleRows, len(result.Rows))]
		fs.SampleErrors = result.Errors[:min(maxSampleErrors, len(result.Errors))]

		summary.FilesProcessed++
		summary.TotalRows += result.Stats.Total
		summary.ValidRows += result.Stats.Valid
		summary.InvalidRows += result.Stats.Invalid
		summary.DuplicateRows += result.Stats.Duplicates
		summary.Files = append(summary.Files, fs)
	}

	summary.ProcessingTime = time.Since(start).Seconds()
	return summary
}

// Upload commits each file: catalog upserts in short transactions, one
// write transaction per file for bookings, one ImportRun record per file.
// A failing file does not stop the batch.
func (g *Gateway) Upload(ctx context.Context, files []File, source, channel string, overrides map[string]string) *Summary {
	summary := &Summary{Files: make([]FileSummary, 0, len(files))}
	start := time.Now()

	for _, file := range files {
		fs := g.uploadFile(ctx, file, source, channel, overrides)

		if fs.Success {
			summary.FilesProcessed++
			summary.TotalRows += fs.Stats.Total
			summary.ValidRows += fs.Stats.Valid
			summary.InvalidRows += fs.Stats.Invalid
			summary.DuplicateRows += fs.Stats.Duplicates
			summary.RowsInserted += fs.RowsInserted
			summary.RowsSkipped += fs.RowsSkipped
		}
		summary.Files = append(summary.Files, fs)
	}

	summary.ProcessingTime = time.Since(start).Seconds()
	return summary
}

func (g *Gateway) uploadFile(ctx context.Context, file File, source, channel string, overrides map[string]string) FileSummary {
	fs := FileSummary{Filename: file.Name}
	fileStart := time.Now()

	table, err := tabular.Read(file.Name, file.Data)
	if err == nil && len(table.Rows) == 0 {
		err = tabular.ErrEmptyFile
	}
	if err != nil {
		fs.Error = err.Error()
		metrics.FilesProcessed.WithLabelValues(source, "failed").Inc()
		log.Warn().Err(err).Str("filename", file.Name).Msg("Rejected import file")
		return fs
	}

	result := g.pipeline.Process(table, source, channel, overrides)
	fs.IngestionID = result.IngestionID
	fs.Stats = result.Stats

	channelID, err := g.catalog.EnsureChannel(ctx, channelNameForSource(source))
	if err != nil {
		fs.Error = err.Error()
		metrics.FilesProcessed.WithLabelValues(source, "failed").Inc()
		return fs
	}

	// Catalog rows must exist before the booking transaction references
	// them; upserts are conservative so repeats are harmless.
	propertyIDs := make(map[string]*int64)
	for _, row := range result.Rows {
		if row.ListingRaw == nil || row.Listing == nil {
			continue
		}
		if _, done := propertyIDs[*row.ListingRaw]; done {
			continue
		}
		id, err := g.catalog.EnsureListing(ctx, *row.ListingRaw, row.Listing)
		if err != nil {
			fs.Error = err.Error()
			metrics.FilesProcessed.WithLabelValues(source, "failed").Inc()
			return fs
		}
		propertyIDs[*row.ListingRaw] = id
	}

	if err := g.createRun(ctx, file, source, channel, result.IngestionID); err != nil {
		fs.Error = err.Error()
		metrics.FilesProcessed.WithLabelValues(source, "failed").Inc()
		return fs
	}

	inserted, skipped, err := g.persistRows(ctx, result, channelID, propertyIDs)
	if err != nil {
		fs.Error = err.Error()
		g.markRunFailed(ctx, result.IngestionID)
		metrics.FilesProcessed.WithLabelValues(source, "failed").Inc()
		return fs
	}
	fs.RowsInserted = inserted
	fs.RowsSkipped = skipped

	if len(result.Errors) > 0 {
		key, err := g.writeErrorArtifact(ctx, result.IngestionID, file.Name, result.Errors)
		if err != nil {
			log.Warn().Err(err).Str("ingestion_id", result.IngestionID).Msg("Failed to write error artifact")
		} else {
			fs.ErrorLogFile = &key
		}
	}

	fs.ProcessingTime = time.Since(fileStart).Seconds()
	fs.Success = true

	if err := g.completeRun(ctx, result.IngestionID, fs, int64(len(file.Data))); err != nil {
		// One retry covers transient pool errors. Past that the bookings
		// have committed but the run stays 'running' until restart
		// recovery marks it interrupted, so the caller gets a warning.
		if err = g.completeRun(ctx, result.IngestionID, fs, int64(len(file.Data))); err != nil {
			fs.Warning = fmt.Sprintf("bookings committed but run finalization failed: %v", err)
			log.Warn().Err(err).Str("ingestion_id", result.IngestionID).Msg("Failed to finalize import run")
		}
	}

	metrics.FilesProcessed.WithLabelValues(source, "completed").Inc()
	metrics.RecordRows(result.Stats.Valid, result.Stats.Invalid, result.Stats.Duplicates, inserted, skipped)
	metrics.RunDuration.WithLabelValues(source).Observe(fs.ProcessingTime)

	log.Info().
		Str("filename", file.Name).
		Str("ingestion_id", result.IngestionID).
		Int("inserted", inserted).
		Int("skipped", skipped).
		Int("errors", len(result.Errors)).
		Msg("Imported file")

	return fs
}

// persistRows runs the per-file booking transaction: row-hash lookup for
// idempotency, insert otherwise. Any error rolls back the whole file.
func (g *Gateway) persistRows(ctx context.Context, result *importer.Result, channelID int64, propertyIDs map[string]*int64) (int, int, error) {
	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	skipped := 0

	for _, row := range result.Rows {
		var existingID int64
		err := tx.QueryRow(ctx, `
			SELECT id FROM bookings WHERE row_hash = $1 LIMIT 1
		`, row.RowHash).Scan(&existingID)
		if err == nil {
			// Idempotent re-import: leave the existing booking untouched
			skipped++
			continue
		}
		if err != pgx.ErrNoRows {
			return 0, 0, fmt.Errorf("failed to look up row hash: %w", err)
		}

		var propertyID *int64
		if row.ListingRaw != nil {
			propertyID = propertyIDs[*row.ListingRaw]
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO bookings (
				confirmation_code, source, channel, external_ref,
				property_id, channel_id, guest_name, guest_contact,
				start_date, end_date, num_nights, total_payout_vnd,
				status, booking_date, listing_raw, notes,
				imported_at, ingestion_id, row_hash
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		`,
			row.ConfirmationCode, row.Source, row.Channel, row.ExternalRef,
			propertyID, channelID, row.GuestName, row.GuestContact,
			row.StartDate, row.EndDate, row.NumNights, row.TotalPayoutVND,
			row.Status, row.BookingDate, row.ListingRaw, row.Notes,
			row.ImportedAt, row.IngestionID, row.RowHash,
		)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to insert booking: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to commit bookings: %w", err)
	}
	return inserted, skipped, nil
}

func (g *Gateway) createRun(ctx context.Context, file File, source, channel, ingestionID string) error {
	_, err := g.pool.Exec(ctx, `
		INSERT INTO import_runs (filename, source, channel, ingestion_id, status, file_size_bytes)
		VALUES ($1, $2, $3, $4, 'running', $5)
	`, file.Name, source, channel, ingestionID, int64(len(file.Data)))
	if err != nil {
		return fmt.Errorf("failed to create import run: %w", err)
	}
	return nil
}

func (g *Gateway) completeRun(ctx context.Context, ingestionID string, fs FileSummary, fileSize int64) error {
	_, err := g.pool.Exec(ctx, `
		UPDATE import_runs
		SET status = 'completed',
		    rows_total = $2,
		    rows_inserted = $3,
		    rows_skipped = $4,
		    rows_errors = $5,
		    file_size_bytes = $6,
		    processing_time_seconds = $7,
		    error_log_file = $8,
		    completed_at = NOW()
		WHERE ingestion_id = $1
	`, ingestionID, fs.Stats.Total, fs.RowsInserted, fs.RowsSkipped,
		fs.Stats.Invalid+fs.Stats.Duplicates, fileSize, fs.ProcessingTime, fs.ErrorLogFile)
	return err
}

func (g *Gateway) markRunFailed(ctx context.Context, ingestionID string) {
	_, err := g.pool.Exec(ctx, `
		UPDATE import_runs
		SET status = 'failed', completed_at = NOW()
		WHERE ingestion_id = $1
	`, ingestionID)
	if err != nil {
		log.Error().Err(err).Str("ingestion_id", ingestionID).Msg("Failed to mark run as failed")
	}
}

// channelNameForSource maps the coarse source to the catalog channel entity
func channelNameForSource(source string) string {
	if source == importer.SourceOfficial {
		return "Airbnb"
	}
	return "Offline"
}
