package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxPomodoro is the longest pomodoro target accepted, in minutes.
const MaxPomodoro = 180

var (
	tagRegex      = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_.-]+)`)
	pomodoroRegex = regexp.MustCompile(`(?:^|\s)\+(\S+)`)
)

// ParsedStart is the result of parsing the free text given to start.
type ParsedStart struct {
	Tag      string
	Notes    string
	Pomodoro int // minutes, 0 when no +N was given
	Errors   []string
}

// ParseStartInput extracts the tag, notes and pomodoro target from the
// arguments of start.
// Syntax: "write docs #writing +25"
//
// The first #tag wins. Without one, the first word is taken as the tag and
// the rest become notes.
func ParseStartInput(input string) ParsedStart {
	result := ParsedStart{Errors: []string{}}

	// Pomodoro target (+25)
	if m := pomodoroRegex.FindStringSubmatch(input); len(m) > 1 {
		minutes, err := strconv.Atoi(m[1])
		switch {
		case err != nil:
			result.Errors = append(result.Errors, "Invalid pomodoro '+"+m[1]+"'. Use minutes, e.g. +25")
		case minutes < 1 || minutes > MaxPomodoro:
			result.Errors = append(result.Errors, "Pomodoro must be between 1 and "+strconv.Itoa(MaxPomodoro)+" minutes")
		default:
			result.Pomodoro = minutes
		}
		input = pomodoroRegex.ReplaceAllString(input, " ")
	}

	// Tag (#writing)
	if m := tagRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Tag = strings.ToLower(m[1])
		input = tagRegex.ReplaceAllString(input, " ")
	}

	words := strings.Fields(input)
	if result.Tag == "" && len(words) > 0 {
		result.Tag = strings.ToLower(words[0])
		words = words[1:]
	}
	result.Notes = strings.Join(words, " ")

	if result.Tag == "" {
		result.Errors = append(result.Errors, "A tag is required, e.g. 'tock start #writing'")
	}

	return result
}

// Valid reports whether parsing produced no errors.
func (p ParsedStart) Valid() bool {
	return len(p.Errors) == 0
}
