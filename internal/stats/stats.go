// Package stats derives read-only analytics from the completion ledger:
// aggregate statistics, weekly and monthly rollups, streak summaries and
// calendar heatmap data.
//
// Every method takes the reference day ("today") as an argument and keeps no
// state between calls.
package stats

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rnwolfe/tally/internal/day"
	"github.com/rnwolfe/tally/internal/errs"
	"github.com/rnwolfe/tally/internal/habit"
	"github.com/rnwolfe/tally/internal/ledger"
	"github.com/rnwolfe/tally/internal/streak"
)

// HabitSource lists the habits of a template owned by a user. *habit.Store
// satisfies it.
type HabitSource interface {
	ListHabits(ctx context.Context, templateID, userID string) ([]habit.Habit, error)
}

// Engine computes statistics for one user's template.
type Engine struct {
	habits HabitSource
	ledger ledger.Reader
}

// New creates an Engine.
func New(habits HabitSource, l ledger.Reader) *Engine {
	return &Engine{habits: habits, ledger: l}
}

// Range bounds a statistics query. Either end may be empty.
type Range struct {
	Start string
	End   string
}

// Statistics is the aggregate view of a template over a range.
type Statistics struct {
	TotalHabits              int               `json:"totalHabits"`
	TotalCompletions         int               `json:"totalCompletions"`
	TotalDaysTracked         int               `json:"totalDaysTracked"`
	OverallCompletionRate    float64           `json:"overallCompletionRate"`
	CurrentStreak            int               `json:"currentStreak"`
	LongestStreak            int               `json:"longestStreak"`
	AverageCompletionsPerDay float64           `json:"averageCompletionsPerDay"`
	Habits                   []HabitStatistics `json:"habits"`
}

// HabitStatistics is one habit's share of Statistics.
type HabitStatistics struct {
	HabitID             string  `json:"habitId"`
	HabitName           string  `json:"habitName"`
	HabitIcon           string  `json:"habitIcon"`
	TotalCompletions    int     `json:"totalCompletions"`
	CompletionRate      float64 `json:"completionRate"`
	CurrentStreak       int     `json:"currentStreak"`
	LongestStreak       int     `json:"longestStreak"`
	FirstCompletionDate *string `json:"firstCompletionDate"`
	LastCompletionDate  *string `json:"lastCompletionDate"`
}

// Statistics computes totals, rates and streaks for a template.
//
// Totals count ledger rows, not the sum of their counts. The rate range runs
// from r.Start (or the earliest completion, or today) to r.End (or today).
func (e *Engine) Statistics(ctx context.Context, userID, templateID string, r Range, today string) (*Statistics, error) {
	if _, err := day.Parse(today); err != nil {
		return nil, err
	}
	for _, bound := range []string{r.Start, r.End} {
		if bound == "" {
			continue
		}
		if _, err := day.Parse(bound); err != nil {
			return nil, err
		}
	}

	habits, err := e.habits.ListHabits(ctx, templateID, userID)
	if err != nil {
		return nil, err
	}
	res := &Statistics{TotalHabits: len(habits), Habits: []HabitStatistics{}}
	if len(habits) == 0 {
		return res, nil
	}

	rows, err := e.ledger.List(ctx, ledger.Filter{
		UserID:   userID,
		HabitIDs: habitIDs(habits),
		Start:    r.Start,
		End:      r.End,
	})
	if err != nil {
		return nil, fmt.Errorf("loading completions: %w", err)
	}

	// Rows arrive in date order, so each habit's dates are ascending.
	var dates []string
	seen := make(map[string]bool)
	byHabit := make(map[string][]string)
	for _, c := range rows {
		if !seen[c.Date] {
			seen[c.Date] = true
			dates = append(dates, c.Date)
		}
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c.Date)
	}

	start := r.Start
	if start == "" {
		start = today
		if len(rows) > 0 {
			start = rows[0].Date
		}
	}
	end := r.End
	if end == "" {
		end = today
	}
	daysInRange, err := spanDays(start, end)
	if err != nil {
		return nil, err
	}

	overall := streak.Compute(dates, today)
	res.TotalCompletions = len(rows)
	res.TotalDaysTracked = len(dates)
	res.OverallCompletionRate = percent(len(rows), len(habits)*daysInRange)
	res.CurrentStreak = overall.Current
	res.LongestStreak = overall.Longest
	res.AverageCompletionsPerDay = ratio(len(rows), len(dates))

	for _, h := range habits {
		hd := byHabit[h.ID]
		info := streak.Compute(hd, today)
		hs := HabitStatistics{
			HabitID:          h.ID,
			HabitName:        h.Name,
			HabitIcon:        h.Icon,
			TotalCompletions: len(hd),
			CompletionRate:   percent(len(hd), daysInRange),
			CurrentStreak:    info.Current,
			LongestStreak:    info.Longest,
		}
		if len(hd) > 0 {
			hs.FirstCompletionDate = strPtr(hd[0])
			hs.LastCompletionDate = strPtr(hd[len(hd)-1])
		}
		res.Habits = append(res.Habits, hs)
	}
	return res, nil
}

// spanDays is the inclusive day count of [start, end], 0 when end < start.
func spanDays(start, end string) (int, error) {
	s, err := day.Parse(start)
	if err != nil {
		return 0, err
	}
	e, err := day.Parse(end)
	if err != nil {
		return 0, err
	}
	if n := day.Span(s, e); n > 0 {
		return n, nil
	}
	return 0, nil
}

var hundred = decimal.NewFromInt(100)

// percent returns num/den*100 rounded to two places, or 0 when den <= 0.
func percent(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(int64(num)).
		Div(decimal.NewFromInt(int64(den))).
		Mul(hundred).
		Round(2).
		Float64()
	return f
}

// ratio returns num/den rounded to two places, or 0 when den <= 0.
func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(int64(num)).
		Div(decimal.NewFromInt(int64(den))).
		Round(2).
		Float64()
	return f
}

func habitIDs(habits []habit.Habit) []string {
	ids := make([]string, 0, len(habits))
	for _, h := range habits {
		ids = append(ids, h.ID)
	}
	return ids
}

func strPtr(s string) *string {
	return &s
}

func validation(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, errs.ErrValidation)...)
}
