// Package export writes tracked items as CSV or iCalendar.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/balkashynov/tock/internal/models"
)

// Format names an output format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatICS Format = "ics"
)

// ParseFormat accepts csv, ics and ical, in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "ics", "ical":
		return FormatICS, nil
	default:
		return "", fmt.Errorf("unknown export format %q. Use: csv or ics", s)
	}
}

// Write exports items in format f. now measures running items.
func Write(w io.Writer, f Format, items []models.Item, now time.Time) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, items, now)
	case FormatICS:
		return WriteICS(w, items, now)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

var csvHeader = []string{"id", "start", "end", "duration_seconds", "tag", "notes", "pomodoro"}

// WriteCSV writes one row per item. A running item has an empty end and is
// measured up to now.
func WriteCSV(w io.Writer, items []models.Item, now time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, item := range items {
		end := ""
		if !item.Running() {
			end = item.EndTime().Format(time.RFC3339)
		}
		record := []string{
			strconv.FormatInt(item.ID, 10),
			item.StartTime().Format(time.RFC3339),
			end,
			strconv.FormatInt(int64(item.Duration(now).Seconds()), 10),
			item.Tag,
			item.Notes,
			strconv.Itoa(item.Pomodoro),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteICS writes one VEVENT per finished item. Running items are skipped.
func WriteICS(w io.Writer, items []models.Item, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tock//time tracker//EN")

	for _, item := range items {
		if item.Running() {
			continue
		}
		event := cal.AddEvent(fmt.Sprintf("%d@tock", item.ID))
		event.SetDtStampTime(now)
		event.SetCreatedTime(time.Unix(item.CreatedAt, 0))
		event.SetModifiedAt(time.Unix(item.UpdatedAt, 0))
		event.SetStartAt(item.StartTime())
		event.SetEndAt(item.EndTime())
		event.SetSummary(item.Tag)
		if item.Notes != "" {
			event.SetDescription(item.Notes)
		}
		event.AddProperty(ics.ComponentPropertyCategories, item.Tag)
	}

	return cal.SerializeTo(w)
}
