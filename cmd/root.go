package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	verbose    bool
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "coverscan",
		Short: "Augmented-reality book cover scanner backed by the Open Library catalog",
		Long: `Coverscan serves a camera page that recognizes registered book covers.

When a cover is detected the page reports it to coverscan, which looks the
book up by ISBN and answers with a card showing its title, authors, cover
image and a link to the catalog record.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			logLevel := slog.LevelInfo
			if opts.verbose {
				logLevel = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
			slog.SetDefault(logger)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Config file (default ./coverscan.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newLookupCmd(opts))
	cmd.AddCommand(newSnapshotCmd(opts))
	cmd.AddCommand(newConfigCmd())

	return cmd
}
