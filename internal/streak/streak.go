// Package streak computes current and longest runs of consecutive days.
package streak

import (
	"sort"
	"time"

	"github.com/rnwolfe/tally/internal/day"
)

// MaxLookback bounds the backward walk for the current streak. Runs longer
// than a year are reported as MaxLookback.
const MaxLookback = 365

// Info holds current and longest streak values.
type Info struct {
	Current int
	Longest int
	// StartDate is the first day of the current run, "" when Current is 0.
	StartDate string
	// LastDate is the most recent date in the set, "" when the set is empty.
	LastDate string
}

// Compute calculates the current and longest streaks from a set of
// calendar-day keys. Order and duplicates in dates do not matter; malformed
// keys are ignored.
//
// The current streak starts at today and walks backward one day at a time
// until the first missing day, so it is 0 whenever today is absent.
// The longest streak scans the whole set with no lookback bound.
func Compute(dates []string, today string) Info {
	set := make(map[string]bool, len(dates))
	parsed := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if set[d] {
			continue
		}
		t, err := day.Parse(d)
		if err != nil {
			continue
		}
		set[d] = true
		parsed = append(parsed, t)
	}
	if len(parsed) == 0 {
		return Info{}
	}

	var info Info

	// Current streak: walk back from today.
	if ref, err := day.Parse(today); err == nil {
		cursor := ref
		for i := 0; i < MaxLookback; i++ {
			key := day.Format(cursor)
			if !set[key] {
				break
			}
			info.Current++
			info.StartDate = key
			cursor = day.AddDays(cursor, -1)
		}
	}

	// Longest streak: scan all dates in descending order.
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].After(parsed[j]) })
	info.LastDate = day.Format(parsed[0])

	info.Longest = 1
	run := 1
	for i := 1; i < len(parsed); i++ {
		if day.Diff(parsed[i], parsed[i-1]) == 1 {
			run++
			if run > info.Longest {
				info.Longest = run
			}
		} else {
			run = 1
		}
	}

	return info
}
