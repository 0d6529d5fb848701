// Package metrics exposes Prometheus metrics for the booking importer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FilesProcessed counts ingested files by source and outcome
	FilesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_import_files_total",
		Help: "Number of import files processed",
	}, []string{"source", "status"})

	// RowsProcessed counts rows by pipeline outcome
	RowsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_import_rows_total",
		Help: "Number of rows processed by outcome",
	}, []string{"outcome"})

	// RunDuration observes per-file processing time
	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "booking_import_run_duration_seconds",
		Help:    "Per-file import duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
)

// RecordRows records the pipeline counters for one file
func RecordRows(valid, invalid, duplicates, inserted, skipped int) {
	RowsProcessed.WithLabelValues("valid").Add(float64(valid))
	RowsProcessed.WithLabelValues("invalid").Add(float64(invalid))
	RowsProcessed.WithLabelValues("duplicate").Add(float64(duplicates))
	RowsProcessed.WithLabelValues("inserted").Add(float64(inserted))
	RowsProcessed.WithLabelValues("skipped").Add(float64(skipped))
}
