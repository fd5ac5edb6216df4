package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tock/internal/db"
	"github.com/balkashynov/tock/internal/parser"
	"github.com/balkashynov/tock/internal/report"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tracked items",
	Long:    "List tracked items, optionally filtered by time range and tag",
	Run: withDB(func(a *app, cmd *cobra.Command, args []string) error {
		opts, err := queryFlags(cmd)
		if err != nil {
			return err
		}

		items, err := db.GetItems(opts)
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}
		if len(items) == 0 {
			fmt.Fprintln(a.out, "No items found. Use 'tock start #tag' to track something.")
			return nil
		}

		now := time.Now()
		fmt.Fprintf(a.out, "%-5s %-10s %-5s %-5s %8s  %-15s %s\n", "ID", "DATE", "FROM", "TO", "TIME", "TAG", "NOTES")
		fmt.Fprintln(a.out, strings.Repeat("-", 80))

		var total time.Duration
		for _, item := range items {
			to := "…"
			if !item.Running() {
				to = item.EndTime().Format("15:04")
			}

			tag := "#" + item.Tag
			if len(tag) > 15 {
				tag = tag[:12] + "..."
			}
			notes := item.Notes
			if len(notes) > 30 {
				notes = notes[:27] + "..."
			}

			d := item.Duration(now)
			total += d
			fmt.Fprintf(a.out, "%-5d %-10s %-5s %-5s %8s  %-15s %s\n",
				item.ID,
				item.StartTime().Format("02/01/2006"),
				item.StartTime().Format("15:04"),
				to,
				report.FormatDuration(d),
				tag,
				notes)
		}

		fmt.Fprintln(a.out, strings.Repeat("-", 80))
		fmt.Fprintf(a.out, "%d items, %s total\n", len(items), report.FormatDuration(total))
		return nil
	}),
}

// queryFlags turns --range and --tag into item query options.
func queryFlags(cmd *cobra.Command) (db.ItemQueryOptions, error) {
	name, _ := cmd.Flags().GetString("range")
	from, to, err := parser.ParseRange(name, time.Now())
	if err != nil {
		return db.ItemQueryOptions{}, err
	}
	tag, _ := cmd.Flags().GetString("tag")
	return db.ItemQueryOptions{From: from, To: to, Tag: strings.TrimPrefix(tag, "#")}, nil
}

// addQueryFlags registers --range and --tag with the given default range.
func addQueryFlags(cmd *cobra.Command, defaultRange string) {
	cmd.Flags().StringP("range", "r", defaultRange, "Time range: today, yesterday, week, month or all")
	cmd.Flags().StringP("tag", "t", "", "Only items with this tag")
}

func init() {
	addQueryFlags(listCmd, "today")
}
