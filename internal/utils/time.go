package utils

import (
	"strings"
	"time"
)

// DayLayout is the calendar-day format used for reading dates.
const DayLayout = "2006-01-02"

// ParseDay parses a "YYYY-MM-DD" string into midnight UTC of that day.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayLayout, strings.TrimSpace(s))
}

// FormatDay renders t as a calendar day in t's own location.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// ClampDays bounds a requested window, using def for non-positive values.
func ClampDays(days, def, max int) int {
	if days <= 0 {
		return def
	}
	if days > max {
		return max
	}
	return days
}
