package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tock/internal/db"
	"github.com/balkashynov/tock/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export items as CSV or iCalendar",
	Long: `Export tracked items for spreadsheets or calendar apps.

Examples:
  tock export --format csv --range month --out march.csv
  tock export --format ics --out tock.ics`,
	Run: withDB(func(a *app, cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(name)
		if err != nil {
			return err
		}

		opts, err := queryFlags(cmd)
		if err != nil {
			return err
		}
		items, err := db.GetItems(opts)
		if err != nil {
			return fmt.Errorf("failed to get items: %w", err)
		}

		var w io.Writer = a.out
		path, _ := cmd.Flags().GetString("out")
		if path != "" && path != "-" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		if err := export.Write(w, format, items, time.Now()); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		a.logger.Info("items exported", "format", format, "count", len(items), "path", path)

		if w != a.out {
			fmt.Fprintf(a.out, "📤 Exported %d items to %s\n", len(items), path)
		}
		return nil
	}),
}

func init() {
	exportCmd.Flags().StringP("format", "f", "csv", "Output format: csv or ics")
	exportCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	addQueryFlags(exportCmd, "all")
}
