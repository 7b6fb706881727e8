package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return now.AddDate(0, 0, -offset)
}

func TestSummarizeEmpty(t *testing.T) {
	s := summarize(nil, now)
	assert.Equal(t, 0, s.PresentCount)
	assert.Equal(t, WindowDays, s.AbsentCount)
	assert.Equal(t, 0, s.Rate)
}

func TestSummarizeDedupesByCalendarDate(t *testing.T) {
	// Three records on the same day count once.
	dates := []time.Time{day(0), day(0).Add(-2 * time.Hour), day(0).Add(-5 * time.Hour)}
	s := summarize(dates, now)
	assert.Equal(t, 1, s.PresentCount)
	assert.Equal(t, WindowDays-1, s.AbsentCount)
}

func TestSummarizeIgnoresDatesOutsideWindow(t *testing.T) {
	dates := []time.Time{
		day(0),
		day(WindowDays - 1), // oldest day still inside
		day(WindowDays),     // one day too old
		now.AddDate(0, 0, 2), // future, not in window
	}
	s := summarize(dates, now)
	assert.Equal(t, 2, s.PresentCount)
}

func TestSummarizeRateRounding(t *testing.T) {
	// 10 of 30 days present -> 33.33 -> 33
	var dates []time.Time
	for i := 0; i < 10; i++ {
		dates = append(dates, day(i))
	}
	s := summarize(dates, now)
	assert.Equal(t, 10, s.PresentCount)
	assert.Equal(t, 33, s.Rate)

	// 20 of 30 -> 66.67 -> 67
	for i := 10; i < 20; i++ {
		dates = append(dates, day(i))
	}
	s = summarize(dates, now)
	assert.Equal(t, 67, s.Rate)
}

func TestSummarizeFullWindow(t *testing.T) {
	var dates []time.Time
	for i := 0; i < WindowDays; i++ {
		dates = append(dates, day(i))
	}
	s := summarize(dates, now)
	assert.Equal(t, WindowDays, s.PresentCount)
	assert.Equal(t, 0, s.AbsentCount)
	assert.Equal(t, 100, s.Rate)
}
