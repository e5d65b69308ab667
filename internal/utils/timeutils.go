package utils

import (
	"fmt"
	"time"
)

// DayFormat is the calendar-date layout used throughout fare data.
const DayFormat = "2006-01-02"

// ParseDay returns the midnight-UTC time for a YYYY-MM-DD string.
func ParseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}
	t, err := time.Parse(DayFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date: %w", err)
	}
	return t, nil
}

// FormatDay renders a time as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// TruncateToDay drops the time-of-day component, keeping the location.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the whole-day offset from start to end, comparing at
// calendar-day resolution. Negative when end precedes start.
func DaysBetween(start, end time.Time) int {
	s := TruncateToDay(start.UTC())
	e := TruncateToDay(end.UTC())
	return int(e.Sub(s).Hours() / 24)
}
