package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/tock/internal/models"
	"github.com/balkashynov/tock/internal/theme"
)

// TagTotal is the time tracked under one tag.
type TagTotal struct {
	Tag       string
	Duration  time.Duration
	Items     int
	Pomodoros int     // pomodoro items that reached their target
	Share     float64 // fraction of Summary.Total, 0..1
}

// Summary aggregates a set of items per tag.
type Summary struct {
	Tags      []TagTotal // longest first
	Total     time.Duration
	Items     int
	Pomodoros int
}

// Summarize totals items per tag. Running items count up to now.
func Summarize(items []models.Item, now time.Time) Summary {
	byTag := make(map[string]*TagTotal)
	var summary Summary

	for _, item := range items {
		if item.Deleted {
			continue
		}
		total, ok := byTag[item.Tag]
		if !ok {
			total = &TagTotal{Tag: item.Tag}
			byTag[item.Tag] = total
		}

		d := item.Duration(now)
		total.Duration += d
		total.Items++
		if item.Pomodoro > 0 && d >= time.Duration(item.Pomodoro)*time.Minute {
			total.Pomodoros++
			summary.Pomodoros++
		}
		summary.Total += d
		summary.Items++
	}

	for _, total := range byTag {
		if summary.Total > 0 {
			total.Share = float64(total.Duration) / float64(summary.Total)
		}
		summary.Tags = append(summary.Tags, *total)
	}
	slices.SortFunc(summary.Tags, func(a, b TagTotal) int {
		if c := cmp.Compare(b.Duration, a.Duration); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})

	return summary
}

// RenderStats writes the per-tag breakdown with a share bar per tag.
func RenderStats(w io.Writer, summary Summary) {
	styles := newStyles(w)

	if summary.Items == 0 {
		fmt.Fprintln(w, styles.muted.Render("No time tracked in this range."))
		return
	}

	tagWidth := len("Tag")
	for _, t := range summary.Tags {
		tagWidth = max(tagWidth, len(t.Tag)+1)
	}
	tagWidth = min(tagWidth, 30)

	bar := progress.New(progress.WithSolidFill(theme.AccentMain), progress.WithWidth(20), progress.WithoutPercentage())

	fmt.Fprintln(w, styles.header.Render(fmt.Sprintf("%-*s  %9s  %6s  %5s", tagWidth, "Tag", "Time", "Share", "Items")))
	for _, t := range summary.Tags {
		fmt.Fprintf(w, "%s  %9s  %5.1f%%  %5d  %s\n",
			styles.tag.Render(fmt.Sprintf("%-*s", tagWidth, truncate("#"+t.Tag, tagWidth))),
			FormatDuration(t.Duration),
			t.Share*100,
			t.Items,
			bar.ViewAs(t.Share))
	}
	fmt.Fprintln(w, styles.total.Render(fmt.Sprintf("%-*s  %9s  %6s  %5d", tagWidth, "Total", FormatDuration(summary.Total), "", summary.Items)))

	if summary.Pomodoros > 0 {
		fmt.Fprintf(w, "\n🍅 %d pomodoros completed\n", summary.Pomodoros)
	}
}

// FormatDuration formats a duration as 1h05m, 12m or 40s.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

type styles struct {
	header lipgloss.Style
	tag    lipgloss.Style
	total  lipgloss.Style
	muted  lipgloss.Style
}

// newStyles binds styles to w so colours are dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.AccentBright)),
		tag:    r.NewStyle().Foreground(lipgloss.Color(theme.SecondaryText)),
		total:  r.NewStyle().Bold(true),
		muted:  r.NewStyle().Foreground(lipgloss.Color(theme.DisabledText)).Italic(true),
	}
}
