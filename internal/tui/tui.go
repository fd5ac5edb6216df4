package tui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/tock/internal/db"
	"github.com/balkashynov/tock/internal/models"
	"github.com/balkashynov/tock/internal/report"
)

// RunTimerTUI shows the live timer for item until the user leaves it.
// Pressing s stops and saves the item; q or esc leaves it running.
func RunTimerTUI(item *models.Item, out io.Writer) error {
	model := NewTimerModel(item, os.Stderr)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	timer, ok := finalModel.(TimerModel)
	if !ok || !timer.Stopping() {
		fmt.Fprintf(out, "💡 Timer is still running in the background for #%s (item %d)\n", item.Tag, item.ID)
		fmt.Fprintf(out, "   Use 'tock status' to check it or 'tock stop' to stop it.\n")
		return nil
	}

	stopped, err := db.StopActiveItem("", nil)
	if err != nil {
		return fmt.Errorf("failed to stop item: %w", err)
	}
	fmt.Fprintf(out, "⏹️  Stopped tracking #%s (item %d)\n", stopped.Tag, stopped.ID)
	fmt.Fprintf(out, "📊 Duration: %s\n", report.FormatDuration(stopped.Duration(stopped.EndTime())))
	return nil
}
