package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tock/internal/db"
	"github.com/balkashynov/tock/internal/models"
	"github.com/balkashynov/tock/internal/parser"
	"github.com/balkashynov/tock/internal/report"
	"github.com/balkashynov/tock/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [#tag] [notes...]",
	Short: "Start tracking time",
	Long: `Start a timer. Opens the interactive timer by default, use --no-ui for a plain start.

The first #tag names what you are working on; without one the first word is
the tag. +N sets a pomodoro target of N minutes.

Examples:
  tock start write docs #writing +25
  tock start meeting standup --no-ui
  tock start #review --at 09:30`,
	Args: cobra.MinimumNArgs(1),
	Run: withDB(func(a *app, cmd *cobra.Command, args []string) error {
		parsed := parser.ParseStartInput(strings.Join(args, " "))
		if pomodoro, _ := cmd.Flags().GetInt("pomodoro"); cmd.Flags().Changed("pomodoro") {
			if pomodoro < 0 || pomodoro > parser.MaxPomodoro {
				return fmt.Errorf("pomodoro must be between 0 and %d minutes", parser.MaxPomodoro)
			}
			parsed.Pomodoro = pomodoro
		}
		if !parsed.Valid() {
			return fmt.Errorf("%s", strings.Join(parsed.Errors, "; "))
		}

		at, err := atFlag(cmd)
		if err != nil {
			return err
		}

		item, err := db.StartItem(db.StartItemRequest{
			Tag:      parsed.Tag,
			Notes:    parsed.Notes,
			Pomodoro: parsed.Pomodoro,
			At:       at,
		})
		if err != nil {
			return err
		}
		a.logger.Info("item started", "id", item.ID, "tag", item.Tag)

		return showStarted(a, cmd, item)
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop [notes...]",
	Short: "Stop tracking time",
	Long: `Stop the running timer. Any arguments replace the item's notes.

Examples:
  tock stop
  tock stop finished the draft
  tock stop --at "20 minutes ago"`,
	Run: withDB(func(a *app, cmd *cobra.Command, args []string) error {
		at, err := atFlag(cmd)
		if err != nil {
			return err
		}

		item, err := db.StopActiveItem(strings.Join(args, " "), at)
		if err != nil {
			return err
		}
		a.logger.Info("item stopped", "id", item.ID, "tag", item.Tag)

		fmt.Fprintf(a.out, "⏹️  Stopped tracking #%s (item %d)\n", item.Tag, item.ID)
		fmt.Fprintf(a.out, "Duration: %s\n", report.FormatDuration(item.Duration(item.EndTime())))
		return nil
	}),
}

var resumeCmd = &cobra.Command{
	Use:   "resume [item-id]",
	Short: "Start a new timer like a previous item",
	Long: `Start a new timer with the tag, notes and pomodoro target of an earlier item.
Without an ID the most recent item is resumed.`,
	Args: cobra.MaximumNArgs(1),
	Run: withDB(func(a *app, cmd *cobra.Command, args []string) error {
		var id int64
		if len(args) == 1 {
			var err error
			if id, err = parseID(args[0]); err != nil {
				return err
			}
		}

		item, err := db.ResumeItem(id)
		if err != nil {
			return err
		}
		a.logger.Info("item resumed", "id", item.ID, "tag", item.Tag, "from", id)

		return showStarted(a, cmd, item)
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current time tracking status",
	Run: withDB(func(a *app, cmd *cobra.Command, args []string) error {
		item, err := db.GetActiveItem()
		if err != nil {
			return err
		}
		if item == nil {
			fmt.Fprintln(a.out, "No active timer")
			return nil
		}

		elapsed := item.Duration(time.Now())
		fmt.Fprintf(a.out, "⏱️  Currently tracking: #%s (item %d)\n", item.Tag, item.ID)
		if item.Notes != "" {
			fmt.Fprintf(a.out, "Notes: %s\n", item.Notes)
		}
		fmt.Fprintf(a.out, "Started at: %s\n", item.StartTime().Format("15:04:05"))
		fmt.Fprintf(a.out, "Elapsed time: %s\n", report.FormatDuration(elapsed))
		if item.Pomodoro > 0 {
			target := time.Duration(item.Pomodoro) * time.Minute
			if elapsed >= target {
				fmt.Fprintf(a.out, "🍅 Pomodoro of %dm reached\n", item.Pomodoro)
			} else {
				fmt.Fprintf(a.out, "🍅 %s left of %dm pomodoro\n", report.FormatDuration(target-elapsed), item.Pomodoro)
			}
		}
		return nil
	}),
}

// showStarted opens the timer UI, or prints a line when --no-ui is set.
func showStarted(a *app, cmd *cobra.Command, item *models.Item) error {
	if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
		fmt.Fprintf(a.out, "⏱️  Started tracking #%s (item %d)\n", item.Tag, item.ID)
		fmt.Fprintf(a.out, "Started at: %s\n", item.StartTime().Format("15:04:05"))
		if item.Pomodoro > 0 {
			fmt.Fprintf(a.out, "🍅 Pomodoro target: %dm\n", item.Pomodoro)
		}
		return nil
	}
	return tui.RunTimerTUI(item, a.out)
}

// atFlag reads --at, returning nil when it was not given.
func atFlag(cmd *cobra.Command) (*time.Time, error) {
	raw, _ := cmd.Flags().GetString("at")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	at, err := parser.ParseMoment(raw, time.Now())
	if err != nil {
		return nil, err
	}
	return &at, nil
}

func init() {
	startCmd.Flags().IntP("pomodoro", "p", 0, "Pomodoro target in minutes")
	startCmd.Flags().String("at", "", "Start time: HH:MM, dd/mm/yyyy HH:MM or 'N minutes ago'")
	startCmd.Flags().Bool("no-ui", false, "Start timer without interactive UI")

	stopCmd.Flags().String("at", "", "Stop time: HH:MM, dd/mm/yyyy HH:MM or 'N minutes ago'")

	resumeCmd.Flags().Bool("no-ui", false, "Resume without interactive UI")
}
