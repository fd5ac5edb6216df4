package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for tock",
	Long:  `Display detailed help for all tock commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), helpText)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tock %s (commit %s, built %s)\n", version, commit, date)
	},
}

const helpText = `
████████╗ ██████╗  ██████╗██╗  ██╗
╚══██╔══╝██╔═══██╗██╔════╝██║ ██╔╝
   ██║   ██║   ██║██║     █████╔╝
   ██║   ██║   ██║██║     ██╔═██╗
   ██║   ╚██████╔╝╚██████╗██║  ██╗
   ╚═╝    ╚═════╝  ╚═════╝╚═╝  ╚═╝

tock - CLI time tracker

TRACKING:

  start [#tag] [notes...]   Start a timer with the interactive clock
    -p, --pomodoro          Pomodoro target in minutes
    --at                    Start time (09:30, 15/03/2025 09:30, 20 minutes ago)
    --no-ui                 Skip the interactive timer

    Smart syntax:
      #tag          What you are working on (else the first word)
      +25           Pomodoro target of 25 minutes

    Example:
      tock start write release notes #writing +25

  stop [notes...]           Stop the running timer
    --at                    Stop time
  resume [id]               Start again like an earlier item (default: last)
    --no-ui                 Skip the interactive timer
  status                    Show the running timer

  Timer keys:
      s             Stop and save
      esc/q         Leave the timer running in the background

ITEMS:

  ls                        List items
    -r, --range             today|yesterday|week|month|all (default today)
    -t, --tag               Only this tag
  edit <id>                 Change an item
    --tag, --notes, --start, --end
  rm <id>                   Delete an item (synced to other devices)

REPORTS:

  report                    Weekly timesheet per tag and day
    --weeks-ago             Show an earlier week
  stats                     Time, share and pomodoros per tag
    -r, --range, -t, --tag
  export                    Export items
    -f, --format            csv|ics (default csv)
    -o, --out               Output file (default stdout)
    -r, --range, -t, --tag

SYNC:

  sync                      Reconcile with the snapshot in your S3 bucket
                            Set S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY
                            and S3_BUCKET in ~/.tock/.env

  version                   Show version information
  help                      Show this help

Data lives in ~/.tock (override with TOCK_HOME).

`
