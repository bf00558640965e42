package cmd

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/lehigh-university-libraries/coverscan/internal/catalog"
	"github.com/lehigh-university-libraries/coverscan/internal/config"
	"github.com/lehigh-university-libraries/coverscan/internal/markers"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Resolve every configured marker and write the records to a file",
		Long: `Looks up the ISBN of every marker in the marker mapping and writes the
results to a parquet or YAML file.

The file can be served back with the "snapshot" catalog provider, which lets
the scanner run without network access to the catalog.`,
		Example: `  # Write a parquet snapshot
  coverscan snapshot --output books.parquet

  # Write a YAML snapshot for review
  coverscan snapshot --output books.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := config.NewManager(opts.configFile)
			if err != nil {
				return err
			}
			cfg := cm.Get()
			ctx := cmd.Context()

			markerConfig, err := markers.NewLoader(nil).Load(ctx, cfg.Markers.Source)
			if err != nil {
				return err
			}

			provider, err := cfg.BuildProvider(ctx)
			if err != nil {
				return fmt.Errorf("failed to configure catalog: %w", err)
			}

			ids := make([]string, 0, len(markerConfig))
			for id := range markerConfig {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			entries := make([]catalog.SnapshotEntry, 0, len(ids))
			failed := 0
			for i, id := range ids {
				isbn, ok := markerConfig.ISBNFor(id)
				if !ok {
					slog.Warn("Skipping marker without ISBN", "marker", id)
					continue
				}

				slog.Info("Resolving marker", "index", i+1, "total", len(ids), "marker", id, "isbn", isbn)
				record, found, err := provider.LookupByISBN(ctx, isbn)
				if err != nil {
					slog.Error("Lookup failed", "marker", id, "isbn", isbn, "err", err)
					failed++
					continue
				}
				if !found {
					record = nil
				}
				entries = append(entries, catalog.NewSnapshotEntry(id, isbn, record))
			}

			if err := catalog.WriteSnapshot(output, entries); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Resolved %d of %d markers (%d failed) into %s\n", len(entries), len(ids), failed, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "books.parquet", "Snapshot file (.parquet or .yaml)")

	return cmd
}
