package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oceanstay/booking-service/internal/database"
	"github.com/oceanstay/booking-service/internal/gateway"
	"github.com/oceanstay/booking-service/internal/importer"
	"github.com/oceanstay/booking-service/internal/mapping"
	"github.com/oceanstay/booking-service/internal/storage"
)

var (
	importSource    string
	importChannel   string
	importOverrides string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import booking files into the database",
	Long: `Parse, normalize, and persist booking files. Each file gets its own
import run and its own transaction; a failing file does not stop the batch.
Rows already imported (same guest, check-in, and payout) are skipped.`,
	Example: `  booking-service import reservations.csv
  booking-service import --source offline --channel facebook t10-2025.csv
  booking-service import --source offline --channel zalo --overrides '{"Avalon D.5":"AVA-503"}' bookings.xlsx`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importSource, "source", importer.SourceOffline, "Source format: official or offline")
	importCmd.Flags().StringVar(&importChannel, "channel", "", "Sales channel (facebook, zalo, walkin); required for offline")
	importCmd.Flags().StringVar(&importOverrides, "overrides", "", "JSON object mapping listing text to a property short, e.g. '{\"Avalon D.5\":\"AVA-503\"}'")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	files, source, channel, overrides, err := prepareImport(args)
	if err != nil {
		return err
	}

	m, err := mapping.Load(cfg.Importer.MappingPath)
	if err != nil {
		return fmt.Errorf("failed to load mapping document: %w", err)
	}

	store, err := storage.NewLocalStorage(cfg.Importer.ArtifactDir)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact storage: %w", err)
	}

	g := gateway.New(database.Pool(), m, store)
	summary := g.Upload(ctx, files, source, channel, overrides)

	displaySummary(summary, false)

	for _, fs := range summary.Files {
		if !fs.Success {
			return fmt.Errorf("some files failed to import")
		}
	}
	return nil
}

// prepareImport resolves the shared flags and reads the file arguments
func prepareImport(paths []string) ([]gateway.File, string, string, map[string]string, error) {
	if importSource != importer.SourceOfficial && importSource != importer.SourceOffline {
		return nil, "", "", nil, fmt.Errorf("invalid source: %s (use official or offline)", importSource)
	}

	channel := importChannel
	if channel == "" {
		if importSource != importer.SourceOfficial {
			return nil, "", "", nil, fmt.Errorf("--channel is required for offline imports")
		}
		channel = "airbnb"
	}

	var overrides map[string]string
	if importOverrides != "" {
		if err := json.Unmarshal([]byte(importOverrides), &overrides); err != nil {
			return nil, "", "", nil, fmt.Errorf("invalid --overrides JSON: %w", err)
		}
	}

	files := make([]gateway.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", "", nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, gateway.File{Name: filepath.Base(path), Data: data})
	}

	return files, importSource, channel, overrides, nil
}

func displaySummary(summary *gateway.Summary, dryRun bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FILE\tSTATUS\tROWS\tVALID\tINVALID\tDUPES\tINSERTED\tSKIPPED")

	for _, fs := range summary.Files {
		status := "ok"
		if !fs.Success {
			status = "failed: " + fs.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			fs.Filename, status,
			fs.Stats.Total, fs.Stats.Valid, fs.Stats.Invalid, fs.Stats.Duplicates,
			fs.RowsInserted, fs.RowsSkipped)
	}
	w.Flush()

	verb := "imported"
	if dryRun {
		verb = "validated"
	}
	fmt.Printf("\n%d file(s) %s in %.2fs\n", summary.FilesProcessed, verb, summary.ProcessingTime)

	for _, fs := range summary.Files {
		if fs.ErrorLogFile != nil {
			fmt.Printf("Error rows for %s written to %s\n", fs.Filename, *fs.ErrorLogFile)
		}
	}
}
