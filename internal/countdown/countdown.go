// Package countdown derives the remaining-time display for task deadlines.
package countdown

import (
	"fmt"
	"time"
)

const (
	// ExpiredText is shown once a deadline has passed.
	ExpiredText = "Waktu habis!"

	// ComputingText is shown for a task that has not been ticked yet.
	ComputingText = "Menghitung..."
)

// layouts accepted for deadlines. Local layouts match what a
// datetime-local input produces.
var layouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// Parse parses a deadline. Layouts without a zone are read in loc.
func Parse(deadline string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339, deadline); err == nil {
		return t, nil
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, deadline, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid deadline: %q", deadline)
}

// Format returns the time left until deadline as "{h}j {m}m {s}s",
// or ExpiredText when nothing is left. Hours are not folded into days.
// A deadline that cannot be parsed is treated as expired.
func Format(deadline string, now time.Time, loc *time.Location) string {
	target, err := Parse(deadline, loc)
	if err != nil {
		return ExpiredText
	}
	return FormatDuration(target.Sub(now))
}

// FormatDuration renders d the way Format does.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return ExpiredText
	}
	ms := d.Milliseconds()
	hours := ms / (1000 * 60 * 60)
	minutes := (ms % (1000 * 60 * 60)) / (1000 * 60)
	seconds := (ms % (1000 * 60)) / 1000
	return fmt.Sprintf("%dj %dm %ds", hours, minutes, seconds)
}
