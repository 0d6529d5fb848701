package gateway

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oceanstay/booking-service/internal/importer"
	"github.com/oceanstay/booking-service/internal/storage"
)

// writeErrorArtifact renders the per-run error CSV and stores it. The
// returned key goes into the ImportRun record so callers can fetch it.
func (g *Gateway) writeErrorArtifact(ctx context.Context, ingestionID, filename string, errors []importer.RowError) (string, error) {
	content, err := renderErrorCSV(errors)
	if err != nil {
		return "", err
	}

	key := storage.BuildArtifactKey(ingestionID, filename)
	if err := g.store.Put(ctx, key, content); err != nil {
		return "", fmt.Errorf("failed to store error artifact: %w", err)
	}
	return key, nil
}

func renderErrorCSV(errors []importer.RowError) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"row_index", "original_data", "error_reason", "timestamp"}); err != nil {
		return nil, err
	}

	for _, rowErr := range errors {
		rawData, err := json.Marshal(rowErr.Raw)
		if err != nil {
			rawData = []byte("{}")
		}
		record := []string{
			fmt.Sprintf("%d", rowErr.RowIndex),
			string(rawData),
			rowErr.Reason,
			rowErr.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
