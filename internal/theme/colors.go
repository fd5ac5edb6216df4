// Package theme holds the colours shared by the timer TUI and the reports.
package theme

const (
	// Base
	CardBackground = "#1B1530" // Dark purple
	Border         = "#3A3F55" // Grey-blue

	// Text
	PrimaryText   = "#E6EAF2"
	SecondaryText = "#B1B8C7" // Purple-tinted grey
	DisabledText  = "#6D7383"
	HelpText      = "240"

	// Accents
	AccentMain   = "#7C3AED" // Logo, clock, bars
	AccentBright = "#A78BFA" // Headers, highlights

	// States
	Error   = "#EF4444"
	Success = "#22C55E"
	Warning = "#F59E0B" // Pomodoro reached
)
