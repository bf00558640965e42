package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/lehigh-university-libraries/coverscan/internal/config"
	"github.com/lehigh-university-libraries/coverscan/internal/render"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newLookupCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "lookup <isbn>",
		Short: "Look up a book by ISBN and print its record or card",
		Args:  cobra.ExactArgs(1),
		Example: `  # Print the normalized record as YAML
  coverscan lookup 9780441013593

  # Print the card markup the scanner page would show
  coverscan lookup 9780441013593 --format html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := config.NewManager(opts.configFile)
			if err != nil {
				return err
			}

			provider, err := cm.Get().BuildProvider(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to configure catalog: %w", err)
			}

			isbn := args[0]
			record, found, err := provider.LookupByISBN(cmd.Context(), isbn)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "html":
				card := render.NotFound(isbn)
				if found {
					card = render.Book(record)
				}
				_, err = fmt.Fprintln(out, card.HTML)
				return err
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"isbn": isbn, "found": found, "record": record})
			case "yaml":
				if !found {
					fmt.Fprintf(cmd.ErrOrStderr(), "No catalog data for ISBN %s\n", isbn)
					return nil
				}
				data, err := yaml.Marshal(record)
				if err != nil {
					return fmt.Errorf("failed to marshal YAML: %w", err)
				}
				_, err = out.Write(data)
				return err
			default:
				return fmt.Errorf("unsupported format: %s (supported: yaml, json, html)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (yaml, json, html)")

	return cmd
}
