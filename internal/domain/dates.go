package domain

import (
	"fmt"
	"time"
)

// DateOf returns the civil date of t as midnight UTC.
// All event dates are compared in this form regardless of the vendor's zone.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD into a civil date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s", s, DateFormat)
	}
	return t, nil
}

// SameDate compares civil dates
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// MonthRange returns the first and last civil dates of a month
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
