// Package day handles calendar-day keys: "YYYY-MM-DD" strings with no time of
// day and no timezone. All arithmetic is done in UTC so that adding a day is
// always exactly 24 hours.
package day

import (
	"fmt"
	"time"

	"github.com/rnwolfe/tally/internal/errs"
)

// Layout is the calendar-day key format.
const Layout = "2006-01-02"

// Parse validates a calendar-day key and returns it as a UTC midnight time.
func Parse(key string) (time.Time, error) {
	if len(key) != len(Layout) {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", key, errs.ErrValidation)
	}
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", key, errs.ErrValidation)
	}
	return t, nil
}

// Valid reports whether key is a well-formed calendar-day key.
func Valid(key string) bool {
	_, err := Parse(key)
	return err == nil
}

// Format returns the calendar-day key of t's wall-clock date.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the key of now's local date.
func Today(now time.Time) string {
	return Format(now)
}

// Key builds a key from date parts, normalizing overflow (month 13 rolls
// into the next year, day 0 is the last day of the previous month).
func Key(year int, month time.Month, d int) string {
	return Format(time.Date(year, month, d, 0, 0, 0, 0, time.UTC))
}

// AddDays shifts a parsed day by n days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// Shift returns the key n days after key (n may be negative).
func Shift(key string, n int) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return Format(AddDays(t, n)), nil
}

// Diff returns the number of days from a to b (b - a). It counts on Unix
// seconds since time.Duration saturates at about 292 years.
func Diff(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / 86400)
}

// Span returns the inclusive number of days in [start, end]. It is zero or
// negative when end is before start.
func Span(start, end time.Time) int {
	return Diff(start, end) + 1
}

// WeekStart returns the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	return AddDays(t, -int(t.Weekday()))
}

// MonthBounds returns the first and last day of the month containing t.
func MonthBounds(t time.Time) (first, last time.Time) {
	first = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// DaysIn returns the number of days in the month containing t.
func DaysIn(t time.Time) int {
	_, last := MonthBounds(t)
	return last.Day()
}
