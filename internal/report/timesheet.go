package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/balkashynov/tock/internal/models"
)

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// TimesheetRow is one tag across the days of a week. Index 0 is Monday.
type TimesheetRow struct {
	Tag   string
	Days  [7]time.Duration
	Total time.Duration
}

// Timesheet is a Monday-to-Sunday grid of tracked time per tag.
type Timesheet struct {
	WeekStart time.Time
	Rows      []TimesheetRow // sorted by tag
	DayTotals [7]time.Duration
	Total     time.Duration
}

// BuildTimesheet groups items started in the week beginning at weekStart by
// tag and weekday. Items outside that week are ignored.
func BuildTimesheet(items []models.Item, weekStart, now time.Time) Timesheet {
	sheet := Timesheet{WeekStart: weekStart}
	weekEnd := weekStart.AddDate(0, 0, 7)
	rows := make(map[string]*TimesheetRow)

	for _, item := range items {
		started := item.StartTime().In(weekStart.Location())
		if item.Deleted || started.Before(weekStart) || !started.Before(weekEnd) {
			continue
		}

		row, ok := rows[item.Tag]
		if !ok {
			row = &TimesheetRow{Tag: item.Tag}
			rows[item.Tag] = row
		}

		day := (int(started.Weekday()) + 6) % 7
		d := item.Duration(now)
		row.Days[day] += d
		row.Total += d
		sheet.DayTotals[day] += d
		sheet.Total += d
	}

	for _, row := range rows {
		sheet.Rows = append(sheet.Rows, *row)
	}
	slices.SortFunc(sheet.Rows, func(a, b TimesheetRow) int { return cmp.Compare(a.Tag, b.Tag) })

	return sheet
}

// visibleDays returns Monday to Friday plus any weekend day with time on it.
func (t Timesheet) visibleDays() []int {
	days := []int{0, 1, 2, 3, 4}
	for _, day := range []int{5, 6} {
		if t.DayTotals[day] > 0 {
			days = append(days, day)
		}
	}
	return days
}

// Render writes the timesheet as a table of decimal hours.
//
//	Tag          Mon  Tue  Wed  Thu  Fri  Total
//	#meeting     1.0    -  0.5    -    -    1.5
//	#writing     2.5  3.0    -    -    -    5.5
func (t Timesheet) Render(w io.Writer) {
	styles := newStyles(w)

	if len(t.Rows) == 0 {
		fmt.Fprintln(w, styles.muted.Render("No time tracked this week."))
		return
	}

	tagWidth := 12
	for _, row := range t.Rows {
		tagWidth = max(tagWidth, len(row.Tag)+1)
	}
	tagWidth = min(tagWidth, 30)

	const cell = 5
	days := t.visibleDays()
	rule := strings.Repeat("-", tagWidth) + strings.Repeat("  "+strings.Repeat("-", cell), len(days)+1)

	var header strings.Builder
	fmt.Fprintf(&header, "%-*s", tagWidth, "Tag")
	for _, day := range days {
		fmt.Fprintf(&header, "  %*s", cell, dayNames[day])
	}
	fmt.Fprintf(&header, "  %*s", cell, "Total")
	fmt.Fprintln(w, styles.header.Render(header.String()))
	fmt.Fprintln(w, rule)

	for _, row := range t.Rows {
		fmt.Fprint(w, styles.tag.Render(fmt.Sprintf("%-*s", tagWidth, truncate("#"+row.Tag, tagWidth))))
		for _, day := range days {
			fmt.Fprintf(w, "  %*s", cell, hoursCell(row.Days[day]))
		}
		fmt.Fprintf(w, "  %*s\n", cell, hoursCell(row.Total))
	}

	fmt.Fprintln(w, rule)
	var total strings.Builder
	fmt.Fprintf(&total, "%-*s", tagWidth, "Total")
	for _, day := range days {
		fmt.Fprintf(&total, "  %*s", cell, hoursCell(t.DayTotals[day]))
	}
	fmt.Fprintf(&total, "  %*s", cell, hoursCell(t.Total))
	fmt.Fprintln(w, styles.total.Render(total.String()))

	fmt.Fprintf(w, "\nWeek of %s to %s\n",
		t.WeekStart.Format("Jan 2"),
		t.WeekStart.AddDate(0, 0, 6).Format("Jan 2, 2006"))
}

func hoursCell(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", d.Hours())
}
