// ABOUTME: CLI commands for exporting and importing the workout library.
// ABOUTME: Supports JSON and YAML formats in both directions.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/circuit/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export exercises and workouts",
	Long: `Export the whole library: exercises, workouts, and each workout's
ordered exercise list with durations.

FORMATS:

  json       JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)

EXAMPLES:

  circuit export json                  # Export as JSON to stdout
  circuit export json -o backup.json   # Save to file
  circuit export yaml`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = repo.ExportJSON(cmd.Context())
		case "yaml":
			data, err = repo.ExportYAML(cmd.Context())
		default:
			return fmt.Errorf("unknown format: %s (use json or yaml)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", exportOutput)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import exercises and workouts",
	Long: `Import a library from a JSON or YAML export.

Everything is added as new records with fresh IDs; workouts keep their
exercise order and durations. The import is all or nothing: if any
record is invalid, nothing is written.

EXAMPLES:

  circuit import backup.json
  circuit import library.yaml
  circuit import dump.txt --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		format := importFormat
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
		}

		data, err := storage.ParseExport(format, raw)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		summary, err := repo.ImportData(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Imported from %s\n", filename)
		fmt.Fprintf(out, "  %d exercises, %d workouts, %d workout entries\n",
			summary.Exercises, summary.Workouts, summary.Associations)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "json or yaml (default: from file extension)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
