package attendance

import (
	"math"
	"time"
)

// WindowDays is the fixed trailing window for attendance statistics.
const WindowDays = 30

// Summary holds derived attendance statistics for one student.
type Summary struct {
	WindowDays   int `json:"window_days"`
	PresentCount int `json:"present_count"`
	AbsentCount  int `json:"absent_count"`
	Rate         int `json:"rate"` // percent, rounded
}

// windowStart is midnight of the earliest day in the trailing window,
// counting today as day one.
func windowStart(now time.Time) time.Time {
	return startOfDay(now.AddDate(0, 0, -(WindowDays - 1)))
}

// summarize counts distinct calendar dates inside the window. A day
// with any number of records counts once; the rest of the window counts
// as absent.
func summarize(dates []time.Time, now time.Time) Summary {
	cutoff := windowStart(now)
	end := startOfDay(now).AddDate(0, 0, 1)

	seen := make(map[string]struct{})
	for _, d := range dates {
		if d.Before(cutoff) || !d.Before(end) {
			continue
		}
		seen[d.Format("2006-01-02")] = struct{}{}
	}

	present := len(seen)
	if present > WindowDays {
		present = WindowDays
	}
	return Summary{
		WindowDays:   WindowDays,
		PresentCount: present,
		AbsentCount:  WindowDays - present,
		Rate:         int(math.Round(float64(present) / WindowDays * 100)),
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
