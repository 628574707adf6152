package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/rnwolfe/tally/internal/day"
	"github.com/rnwolfe/tally/internal/habit"
	"github.com/rnwolfe/tally/internal/ledger"
)

// Rollup bounds.
const (
	MaxWeeks  = 52
	MaxMonths = 24
)

// WeekSummary covers one Sunday-to-Saturday week.
type WeekSummary struct {
	WeekStart        string          `json:"weekStart"`
	WeekEnd          string          `json:"weekEnd"`
	TotalCompletions int             `json:"totalCompletions"`
	CompletionRate   float64         `json:"completionRate"`
	HabitsCompleted  []HabitActivity `json:"habitsCompleted"`
}

// HabitActivity is the number of distinct days a habit was done in a week.
type HabitActivity struct {
	HabitID       string `json:"habitId"`
	HabitName     string `json:"habitName"`
	DaysCompleted int    `json:"daysCompleted"`
}

// MonthSummary covers one calendar month.
type MonthSummary struct {
	Month                    string   `json:"month"`
	MonthName                string   `json:"monthName"`
	TotalCompletions         int      `json:"totalCompletions"`
	CompletionRate           float64  `json:"completionRate"`
	AverageCompletionsPerDay float64  `json:"averageCompletionsPerDay"`
	BestDay                  *BestDay `json:"bestDay"`
}

// BestDay is the day of a month with the most completion rows.
type BestDay struct {
	Date        string `json:"date"`
	Completions int    `json:"completions"`
}

// Weekly returns the last n weeks, oldest first. Week i (counting back from
// today) runs from the Sunday on or before today-7i up to today-7i itself, so
// no bucket reaches past its reference day.
func (e *Engine) Weekly(ctx context.Context, userID, templateID string, weeks int, today string) ([]WeekSummary, error) {
	if weeks < 1 || weeks > MaxWeeks {
		return nil, validation("weeks must be between 1 and %d, got %d", MaxWeeks, weeks)
	}
	ref, err := day.Parse(today)
	if err != nil {
		return nil, err
	}
	habits, err := e.habits.ListHabits(ctx, templateID, userID)
	if err != nil {
		return nil, err
	}

	out := make([]WeekSummary, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		end := day.AddDays(ref, -7*i)
		start := day.WeekStart(end)
		ws, err := e.week(ctx, userID, habits, day.Format(start), day.Format(end))
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, nil
}

func (e *Engine) week(ctx context.Context, userID string, habits []habit.Habit, start, end string) (WeekSummary, error) {
	ws := WeekSummary{WeekStart: start, WeekEnd: end, HabitsCompleted: []HabitActivity{}}

	rows, err := e.ledger.List(ctx, ledger.Filter{UserID: userID, HabitIDs: habitIDs(habits), Start: start, End: end})
	if err != nil {
		return ws, fmt.Errorf("loading week %s: %w", start, err)
	}
	ws.TotalCompletions = len(rows)
	ws.CompletionRate = percent(len(rows), len(habits)*7)

	days := make(map[string]map[string]bool, len(habits))
	for _, c := range rows {
		if days[c.HabitID] == nil {
			days[c.HabitID] = make(map[string]bool)
		}
		days[c.HabitID][c.Date] = true
	}
	for _, h := range habits {
		ws.HabitsCompleted = append(ws.HabitsCompleted, HabitActivity{
			HabitID:       h.ID,
			HabitName:     h.Name,
			DaysCompleted: len(days[h.ID]),
		})
	}
	return ws, nil
}

// Monthly returns the last n calendar months, oldest first, ending with the
// month containing today.
func (e *Engine) Monthly(ctx context.Context, userID, templateID string, months int, today string) ([]MonthSummary, error) {
	if months < 1 || months > MaxMonths {
		return nil, validation("months must be between 1 and %d, got %d", MaxMonths, months)
	}
	ref, err := day.Parse(today)
	if err != nil {
		return nil, err
	}
	habits, err := e.habits.ListHabits(ctx, templateID, userID)
	if err != nil {
		return nil, err
	}

	out := make([]MonthSummary, 0, months)
	for i := months - 1; i >= 0; i-- {
		// time.Date normalizes a month before January into the prior year.
		first := time.Date(ref.Year(), ref.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		ms, err := e.month(ctx, userID, habits, first)
		if err != nil {
			return nil, err
		}
		out = append(out, ms)
	}
	return out, nil
}

func (e *Engine) month(ctx context.Context, userID string, habits []habit.Habit, first time.Time) (MonthSummary, error) {
	_, last := day.MonthBounds(first)
	n := day.DaysIn(first)
	ms := MonthSummary{
		Month:     first.Format("2006-01"),
		MonthName: first.Format("January 2006"),
	}

	rows, err := e.ledger.List(ctx, ledger.Filter{
		UserID:   userID,
		HabitIDs: habitIDs(habits),
		Start:    day.Format(first),
		End:      day.Format(last),
	})
	if err != nil {
		return ms, fmt.Errorf("loading month %s: %w", ms.Month, err)
	}
	ms.TotalCompletions = len(rows)
	ms.CompletionRate = percent(len(rows), len(habits)*n)
	ms.AverageCompletionsPerDay = ratio(len(rows), n)

	// Rows are date-ordered; a strict > keeps the earliest of tied days.
	perDay := make(map[string]int)
	var order []string
	for _, c := range rows {
		if perDay[c.Date] == 0 {
			order = append(order, c.Date)
		}
		perDay[c.Date]++
	}
	for _, d := range order {
		if ms.BestDay == nil || perDay[d] > ms.BestDay.Completions {
			ms.BestDay = &BestDay{Date: d, Completions: perDay[d]}
		}
	}
	return ms, nil
}
