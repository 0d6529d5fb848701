package importer

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/oceanstay/booking-service/internal/listing"
	"github.com/oceanstay/booking-service/internal/mapping"
	"github.com/oceanstay/booking-service/internal/parsers/tabular"
)

// Pipeline orchestrates one file: map, stamp, hash, dedup, validate
type Pipeline struct {
	mapping *mapping.Mapping
	mapper  *Mapper
}

// NewPipeline creates a pipeline for the loaded mapping document
func NewPipeline(m *mapping.Mapping) *Pipeline {
	return &Pipeline{
		mapping: m,
		mapper:  NewMapper(m),
	}
}

// Process runs the parsed table through the row pipeline. Row failures are
// collected, never raised; the file always produces a Result. Overrides is
// the per-upload listing override table (may be nil).
func (p *Pipeline) Process(table *tabular.Table, source, channel string, overrides map[string]string) *Result {
	result := &Result{
		IngestionID: uuid.NewString(),
		Rows:        make([]*Row, 0, len(table.Rows)),
		Errors:      make([]RowError, 0),
	}

	seen := make(map[string]bool, len(table.Rows))

	for i, raw := range table.Rows {
		result.Stats.Total++

		row, err := p.mapper.Map(source, table, raw)
		if err != nil {
			result.Stats.Invalid++
			result.Errors = append(result.Errors, rowError(i, table.RowMap(raw), err.Error()))
			continue
		}

		row.RowIndex = i
		row.Source = source
		if row.Channel == "" {
			row.Channel = channel
		}
		row.IngestionID = result.IngestionID
		row.ImportedAt = time.Now().UTC()

		if row.ListingRaw != nil {
			row.Listing = listing.Resolve(*row.ListingRaw, overrides)
		}

		// The hash needs all three identity fields; rows missing one skip
		// dedup and fall through to validation, which rejects them.
		if row.GuestName != nil && row.StartDate != nil && row.TotalPayoutVND != nil {
			row.RowHash = Fingerprint(*row.GuestName, *row.StartDate, *row.TotalPayoutVND)
			if seen[row.RowHash] {
				result.Stats.Duplicates++
				result.Errors = append(result.Errors, rowError(i, row.Raw, "Duplicate row in current batch"))
				continue
			}
			seen[row.RowHash] = true
		}

		if ok, msg := Validate(row, p.mapping.Rules()); !ok {
			result.Stats.Invalid++
			result.Errors = append(result.Errors, rowError(i, row.Raw, msg))
			continue
		}

		result.Rows = append(result.Rows, row)
		result.Stats.Valid++
	}

	log.Debug().
		Str("ingestion_id", result.IngestionID).
		Str("source", source).
		Int("total", result.Stats.Total).
		Int("valid", result.Stats.Valid).
		Int("invalid", result.Stats.Invalid).
		Int("duplicates", result.Stats.Duplicates).
		Msg("Processed table")

	return result
}

func rowError(index int, raw map[string]string, reason string) RowError {
	return RowError{
		RowIndex:  index,
		Raw:       raw,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
}
