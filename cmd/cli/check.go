package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oceanstay/booking-service/internal/gateway"
	"github.com/oceanstay/booking-service/internal/importer"
	"github.com/oceanstay/booking-service/internal/mapping"
)

var checkVerbose bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate booking files without writing anything",
	Long: `Dry-run the import pipeline over one or more booking files. Reports
per-file row counts and the first few parsed rows and row errors. No
database connection is needed and nothing is persisted.`,
	Example: `  booking-service check reservations.csv
  booking-service check --source offline --channel facebook t10-2025.csv
  booking-service check -v bookings.xlsx`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&importSource, "source", importer.SourceOffline, "Source format: official or offline")
	checkCmd.Flags().StringVar(&importChannel, "channel", "", "Sales channel (facebook, zalo, walkin); required for offline")
	checkCmd.Flags().StringVar(&importOverrides, "overrides", "", "JSON object mapping listing text to a property short, e.g. '{\"Avalon D.5\":\"AVA-503\"}'")
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "Print sample rows and errors as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	files, source, channel, overrides, err := prepareImport(args)
	if err != nil {
		return err
	}

	mappingPath := ""
	if cfg != nil {
		mappingPath = cfg.Importer.MappingPath
	}
	m, err := mapping.Load(mappingPath)
	if err != nil {
		return fmt.Errorf("failed to load mapping document: %w", err)
	}

	g := gateway.New(nil, m, nil)
	summary := g.Validate(ctx, files, source, channel, overrides)

	displaySummary(summary, true)

	if checkVerbose {
		if err := printSamples(summary); err != nil {
			return err
		}
	}

	for _, fs := range summary.Files {
		if !fs.Success {
			return fmt.Errorf("some files failed validation")
		}
	}
	return nil
}

func printSamples(summary *gateway.Summary) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for _, fs := range summary.Files {
		if len(fs.SampleRows) > 0 {
			fmt.Printf("\nSample rows from %s:\n", fs.Filename)
			if err := enc.Encode(fs.SampleRows); err != nil {
				return err
			}
		}
		if len(fs.SampleErrors) > 0 {
			fmt.Printf("\nSample errors from %s:\n", fs.Filename)
			if err := enc.Encode(fs.SampleErrors); err != nil {
				return err
			}
		}
	}
	return nil
}
