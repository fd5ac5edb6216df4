package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tock/internal/config"
	"github.com/balkashynov/tock/internal/db"
	"github.com/balkashynov/tock/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "tock",
	Short: "A CLI time tracker with serverless sync",
	Long: `tock tracks where your time goes from the terminal.
Start and stop tagged timers, run pomodoros, and render timesheets and stats.
Devices share one database snapshot in an S3-compatible bucket, no server needed.`,
	SilenceUsage: true,
}

// app is what a command gets once config, logging and the database are up.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	out    io.Writer
}

// setup loads config, opens the log file and the local database. The
// returned func releases both.
func setup(out io.Writer) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, logCloser, err := logging.Setup(logging.Options{Path: cfg.LogPath, Level: cfg.LogLevel})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	if err := db.Initialize(cfg.DBPath); err != nil {
		_ = logCloser.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := db.Close(db.DB); err != nil {
			logger.Warn("closing database failed", "error", err)
		}
		db.DB = nil
		_ = logCloser.Close()
	}
	return &app{cfg: cfg, logger: logger, out: out}, cleanup, nil
}

// withDB wraps a command so it runs with the environment set up. Errors are
// printed for the user and logged, not returned to cobra.
func withDB(fn func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		a, cleanup, err := setup(out)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		defer cleanup()

		a.logger.Debug("running command", "command", cmd.Name(), "args", args)
		if err := fn(a, cmd, args); err != nil {
			a.logger.Error("command failed", "command", cmd.Name(), "error", err)
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

// parseID parses an item id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item ID '%s'", arg)
	}
	return id, nil
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command. Ctrl-C cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetHelpCommand(helpCmd)
}
