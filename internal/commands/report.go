package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tock/internal/db"
	"github.com/balkashynov/tock/internal/parser"
	"github.com/balkashynov/tock/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show a weekly timesheet",
	Long: `Show a weekly timesheet of tracked hours per tag and day.

Monday to Friday are always shown, weekend days only when time was tracked.

Example output:
  Tag            Mon    Tue    Wed    Thu    Fri  Total
  #meeting       1.0      -    0.5      -      -    1.5
  #writing       2.5    3.0      -      -      -    5.5
  Total          3.5    3.0    0.5      -      -    7.0`,
	Run: withDB(func(a *app, cmd *cobra.Command, args []string) error {
		weeksAgo, _ := cmd.Flags().GetInt("weeks-ago")
		if weeksAgo < 0 {
			return fmt.Errorf("--weeks-ago cannot be negative")
		}

		now := time.Now()
		weekStart := parser.WeekStart(now).AddDate(0, 0, -7*weeksAgo)

		items, err := db.GetItems(db.ItemQueryOptions{From: weekStart, To: weekStart.AddDate(0, 0, 7)})
		if err != nil {
			return fmt.Errorf("failed to get items: %w", err)
		}

		report.BuildTimesheet(items, weekStart, now).Render(a.out)
		return nil
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show time per tag",
	Long:  "Show total time, share and completed pomodoros per tag for a time range.",
	Run: withDB(func(a *app, cmd *cobra.Command, args []string) error {
		opts, err := queryFlags(cmd)
		if err != nil {
			return err
		}

		items, err := db.GetItems(opts)
		if err != nil {
			return fmt.Errorf("failed to get items: %w", err)
		}

		report.RenderStats(a.out, report.Summarize(items, time.Now()))
		return nil
	}),
}

func init() {
	reportCmd.Flags().Int("weeks-ago", 0, "Show an earlier week (1 = last week)")
	addQueryFlags(statsCmd, "week")
}
