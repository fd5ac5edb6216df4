package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/tock/internal/models"
)

func span(id int64, tag string, start time.Time, d time.Duration) models.Item {
	end := start.Add(d).Unix()
	return models.Item{ID: id, Tag: tag, Start: start.Unix(), End: &end}
}

func TestSummarize(t *testing.T) {
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	now := base.Add(10 * time.Hour)

	pomodoro := span(3, "writing", base.Add(4*time.Hour), 30*time.Minute)
	pomodoro.Pomodoro = 25
	short := span(4, "writing", base.Add(5*time.Hour), 10*time.Minute)
	short.Pomodoro = 25
	deleted := span(5, "meeting", base, 5*time.Hour)
	deleted.Deleted = true
	running := models.Item{ID: 6, Tag: "review", Start: now.Add(-20 * time.Minute).Unix()}

	summary := Summarize([]models.Item{
		span(1, "meeting", base, time.Hour),
		span(2, "writing", base.Add(2*time.Hour), 80*time.Minute),
		pomodoro,
		short,
		deleted,
		running,
	}, now)

	require.Len(t, summary.Tags, 3)
	assert.Equal(t, 5, summary.Items)
	assert.Equal(t, 1, summary.Pomodoros)
	assert.Equal(t, 3*time.Hour+20*time.Minute, summary.Total)

	writing := summary.Tags[0]
	assert.Equal(t, "writing", writing.Tag)
	assert.Equal(t, 2*time.Hour, writing.Duration)
	assert.Equal(t, 3, writing.Items)
	assert.Equal(t, 1, writing.Pomodoros)
	assert.InDelta(t, 0.6, writing.Share, 0.001)

	assert.Equal(t, "meeting", summary.Tags[1].Tag)
	assert.Equal(t, "review", summary.Tags[2].Tag)
	assert.Equal(t, 20*time.Minute, summary.Tags[2].Duration)
}

func TestRenderStats(t *testing.T) {
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	summary := Summarize([]models.Item{
		span(1, "meeting", base, time.Hour),
		span(2, "writing", base.Add(2*time.Hour), 3*time.Hour),
	}, base.Add(10*time.Hour))

	var buf bytes.Buffer
	RenderStats(&buf, summary)
	out := buf.String()

	assert.Contains(t, out, "#writing")
	assert.Contains(t, out, "#meeting")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "4h00m")
	assert.NotContains(t, out, "pomodoros")
}

func TestRenderStats_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderStats(&buf, Summary{})
	assert.Contains(t, buf.String(), "No time tracked")
}

func TestBuildTimesheet(t *testing.T) {
	monday := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	now := monday.AddDate(0, 0, 7)

	items := []models.Item{
		span(1, "writing", monday.Add(9*time.Hour), 2*time.Hour+30*time.Minute),
		span(2, "writing", monday.AddDate(0, 0, 1).Add(9*time.Hour), 3*time.Hour),
		span(3, "meeting", monday.AddDate(0, 0, 2).Add(14*time.Hour), 30*time.Minute),
		span(4, "hobby", monday.AddDate(0, 0, 6).Add(10*time.Hour), time.Hour),
		span(5, "writing", monday.AddDate(0, 0, -1).Add(10*time.Hour), time.Hour),
	}

	sheet := BuildTimesheet(items, monday, now)

	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, []string{"hobby", "meeting", "writing"},
		[]string{sheet.Rows[0].Tag, sheet.Rows[1].Tag, sheet.Rows[2].Tag})
	assert.Equal(t, 5*time.Hour+30*time.Minute, sheet.Rows[2].Total)
	assert.Equal(t, time.Hour, sheet.DayTotals[6])
	assert.Equal(t, 7*time.Hour, sheet.Total)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 6}, sheet.visibleDays())

	var buf bytes.Buffer
	sheet.Render(&buf)
	out := buf.String()
	assert.Contains(t, out, "Sun")
	assert.NotContains(t, out, "Sat")
	assert.Contains(t, out, "2.5")
	assert.Contains(t, out, "7.0")
	assert.Contains(t, out, "Week of Mar 10 to Mar 16, 2025")
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		40 * time.Second:              "40s",
		12 * time.Minute:              "12m",
		time.Hour + 5*time.Minute:     "1h05m",
		26*time.Hour + 59*time.Minute: "26h59m",
	}
	for d, want := range tests {
		assert.Equal(t, want, FormatDuration(d))
	}
}
