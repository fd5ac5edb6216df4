package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	clockRegex    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	dateRegex     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:\s+(\d{1,2}):(\d{2}))?$`)
	relativeRegex = regexp.MustCompile(`^(\d+)\s*(m|min|mins|minute|minutes|h|hour|hours|d|day|days)\s+ago$`)
)

// ParseMoment parses a point in time relative to now.
// Supported formats:
// - now
// - HH:MM, today (e.g., "09:30")
// - dd/mm/yyyy, at midnight (e.g., "15/12/2024")
// - dd/mm/yyyy HH:MM (e.g., "15/12/2024 09:30")
// - N minutes|hours|days ago (e.g., "20 minutes ago", "2h ago")
func ParseMoment(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(strings.Join(strings.Fields(input), " "))
	if input == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	if input == "now" {
		return now, nil
	}

	if m := clockRegex.FindStringSubmatch(input); m != nil {
		hour, minute, err := parseClock(m[1], m[2])
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()), nil
	}

	if m := dateRegex.FindStringSubmatch(input); m != nil {
		return parseDate(m, now.Location())
	}

	if m := relativeRegex.FindStringSubmatch(input); m != nil {
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid number")
		}
		switch m[2] {
		case "m", "min", "mins", "minute", "minutes":
			return now.Add(-time.Duration(amount) * time.Minute), nil
		case "h", "hour", "hours":
			return now.Add(-time.Duration(amount) * time.Hour), nil
		default:
			return now.AddDate(0, 0, -amount), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid time %q. Use: HH:MM, dd/mm/yyyy, dd/mm/yyyy HH:MM, or N minutes|hours|days ago", input)
}

func parseClock(h, m string) (int, int, error) {
	hour, err := strconv.Atoi(h)
	if err != nil || hour > 23 {
		return 0, 0, fmt.Errorf("hour must be between 0 and 23")
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute > 59 {
		return 0, 0, fmt.Errorf("minute must be between 0 and 59")
	}
	return hour, minute, nil
}

// parseDate turns a dateRegex match into a time, rejecting days that do
// not exist (31/02 and friends).
func parseDate(m []string, loc *time.Location) (time.Time, error) {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}

	hour, minute := 0, 0
	if m[4] != "" {
		var err error
		hour, minute, err = parseClock(m[4], m[5])
		if err != nil {
			return time.Time{}, err
		}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	return t, nil
}

// ParseRange resolves a named window to [from, to). "all" returns two zero
// times, which leaves the window open on both sides.
// Supported names: today, yesterday, week, month, all.
func ParseRange(name string, now time.Time) (time.Time, time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "today", "":
		return today, today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), today, nil
	case "week":
		monday := WeekStart(now)
		return monday, monday.AddDate(0, 0, 7), nil
	case "month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, first.AddDate(0, 1, 0), nil
	case "all":
		return time.Time{}, time.Time{}, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown range %q. Use: today, yesterday, week, month, or all", name)
	}
}

// WeekStart returns midnight on the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
