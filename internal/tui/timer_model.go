package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/tock/internal/models"
	"github.com/balkashynov/tock/internal/theme"
)

// TimerModel is the live view of a running item.
type TimerModel struct {
	width  int
	height int
	item   *models.Item

	now     func() time.Time
	elapsed time.Duration

	// Pomodoro
	bar     progress.Model
	bell    io.Writer
	rang    bool
	reached bool

	timerAnimation int

	stopping bool // s pressed: stop and save
	exiting  bool // q/esc pressed: leave the timer running
}

type timerTickMsg time.Time

type animationTickMsg struct{}

// NewTimerModel creates a timer for item. bell receives a BEL once the
// pomodoro target is reached; nil disables it.
func NewTimerModel(item *models.Item, bell io.Writer) TimerModel {
	return newTimerModel(item, bell, time.Now)
}

func newTimerModel(item *models.Item, bell io.Writer, now func() time.Time) TimerModel {
	m := TimerModel{
		item: item,
		now:  now,
		bar: progress.New(
			progress.WithGradient(theme.AccentMain, theme.AccentBright),
			progress.WithWidth(40),
		),
		bell: bell,
	}
	m.elapsed = item.Duration(m.now())
	m.reached = m.target() > 0 && m.elapsed >= m.target()
	m.rang = m.reached // already past target when the view opened
	return m
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func animationTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// Init starts the clock and animation tickers.
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(timerTick(), animationTick())
}

// target is the pomodoro length, 0 for a plain timer.
func (m TimerModel) target() time.Duration {
	return time.Duration(m.item.Pomodoro) * time.Minute
}

// Update handles messages.
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.elapsed = m.item.Duration(m.now())

		var cmds []tea.Cmd
		if t := m.target(); t > 0 && m.elapsed >= t {
			m.reached = true
			if !m.rang {
				m.rang = true
				cmds = append(cmds, m.ring())
			}
		}
		if !m.stopping && !m.exiting {
			cmds = append(cmds, timerTick())
		}
		return m, tea.Batch(cmds...)

	case animationTickMsg:
		m.timerAnimation = (m.timerAnimation + 1) % 4
		if !m.stopping && !m.exiting {
			return m, animationTick()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(max(msg.Width/2-10, 10), 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S":
			m.stopping = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// ring writes a terminal bell.
func (m TimerModel) ring() tea.Cmd {
	if m.bell == nil {
		return nil
	}
	bell := m.bell
	return func() tea.Msg {
		fmt.Fprint(bell, "\a")
		return nil
	}
}

// Stopping reports whether the user asked to stop and save the item.
func (m TimerModel) Stopping() bool { return m.stopping }

// View renders the timer.
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderTimerPanel(m.width, contentHeight),
			helpBar,
		)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderDetailsPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
}

func (m TimerModel) renderTimerPanel(width, height int) string {
	var components []string

	animChars := []string{"⏱", "⏲", "⏱", "⏲"}
	animChar := animChars[m.timerAnimation]
	header := fmt.Sprintf("%s  TRACKING TIME  %s", animChar, animChar)
	if m.reached {
		header = "🍅  POMODORO DONE  🍅"
	}
	components = append(components, centered(width).
		Foreground(lipgloss.Color(theme.AccentBright)).
		Bold(true).
		Render(header))

	components = append(components, centered(width).
		Foreground(lipgloss.Color(theme.PrimaryText)).
		Bold(true).
		Render(fmt.Sprintf("#%s", m.item.Tag)))

	var clock []string
	for _, line := range strings.Split(renderBigClock(m.elapsed), "\n") {
		clock = append(clock, centered(width).Render(line))
	}
	components = append(components, strings.Join(clock, "\n"))

	if t := m.target(); t > 0 {
		percent := min(float64(m.elapsed)/float64(t), 1)
		components = append(components, centered(width).Render(m.bar.ViewAs(percent)))

		remaining := "target reached"
		if m.elapsed < t {
			remaining = fmt.Sprintf("%s left of %dm", formatClock(t-m.elapsed), m.item.Pomodoro)
		}
		color := theme.SecondaryText
		if m.reached {
			color = theme.Warning
		}
		components = append(components, centered(width).
			Foreground(lipgloss.Color(color)).
			Render(remaining))
	}

	components = append(components, centered(width).
		Foreground(lipgloss.Color(theme.SecondaryText)).
		Italic(true).
		Render("Started at "+m.item.StartTime().Format("15:04:05")))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// formatClock renders mm:ss, or hh:mm:ss from the first hour on.
func formatClock(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func renderBigClock(d time.Duration) string {
	var lines [5]strings.Builder
	for _, char := range formatClock(d) {
		art := bigDigits[char]
		for i := range lines {
			lines[i].WriteString(art[i])
			lines[i].WriteString(" ")
		}
	}

	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.AccentBright)).
		Bold(true)

	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}

func (m TimerModel) renderDetailsPanel(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	logoLines := []string{
		"████████╗ ██████╗  ██████╗██╗  ██╗",
		"╚══██╔══╝██╔═══██╗██╔════╝██║ ██╔╝",
		"   ██║   ██║   ██║██║     █████╔╝ ",
		"   ██║   ██║   ██║██║     ██╔═██╗ ",
		"   ██║   ╚██████╔╝╚██████╗██║  ██╗",
		"   ╚═╝    ╚═════╝  ╚═════╝╚═╝  ╚═╝",
	}
	b.WriteString(centered(width - 8).
		Foreground(lipgloss.Color(theme.AccentMain)).
		Bold(true).
		Render(strings.Join(logoLines, "\n")))
	b.WriteString("\n\n")

	b.WriteString(centered(width - 8).
		Foreground(lipgloss.Color(theme.Border)).
		Render(strings.Repeat("─", min(width-12, 40))))
	b.WriteString("\n\n")

	notes := m.item.Notes
	if notes == "" {
		notes = "no notes"
	}
	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.PrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.AccentMain)).
		Width(width-12).
		Padding(0, 1).
		Render(notes))
	b.WriteString("\n\n")

	value := func(s, color string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
	}

	pomodoro := value("off", theme.DisabledText)
	if m.item.Pomodoro > 0 {
		pomodoro = value(fmt.Sprintf("%dm", m.item.Pomodoro), theme.AccentBright)
	}

	lines := []string{
		fmt.Sprintf("🆔 Item: %s", value(fmt.Sprintf("%d", m.item.ID), theme.AccentMain)),
		fmt.Sprintf("🏷️  Tag: %s", value("#"+m.item.Tag, theme.AccentBright)),
		fmt.Sprintf("🍅 Pomodoro: %s", pomodoro),
		fmt.Sprintf("📅 Started: %s", value(m.item.StartTime().Format("Jan 02, 2006 15:04"), theme.SecondaryText)),
	}
	b.WriteString(centered(width - 8).Render(strings.Join(lines, "\n")))

	return lipgloss.NewStyle().Height(height).Render(b.String())
}

func (m TimerModel) renderHelpBar() string {
	return centered(m.width).
		Foreground(lipgloss.Color(theme.HelpText)).
		Italic(true).
		Render("s stop & save · esc/q exit (keep running) · ctrl+c force quit")
}
