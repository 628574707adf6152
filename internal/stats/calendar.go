package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/rnwolfe/tally/internal/day"
	"github.com/rnwolfe/tally/internal/errs"
	"github.com/rnwolfe/tally/internal/habit"
	"github.com/rnwolfe/tally/internal/ledger"
	"github.com/rnwolfe/tally/internal/streak"
)

// Calendar year bounds.
const (
	MinYear = 2020
	MaxYear = 2100
)

// CalendarResult is a sparse year of activity: days without completions are
// absent from Data.
type CalendarResult struct {
	Year int           `json:"year"`
	Data []CalendarDay `json:"data"`
}

// CalendarDay is one day with at least one completion.
type CalendarDay struct {
	Date        string     `json:"date"`
	Completions int        `json:"completions"`
	Habits      []HabitRef `json:"habits"`
}

// HabitRef names a habit that contributed to a day.
type HabitRef struct {
	HabitID   string `json:"habitId"`
	HabitName string `json:"habitName"`
}

// Calendar groups a year's completions by date. A non-empty habitID limits
// the result to that habit, which must belong to the template.
func (e *Engine) Calendar(ctx context.Context, userID, templateID string, year int, habitID string) (*CalendarResult, error) {
	if year < MinYear || year > MaxYear {
		return nil, validation("year must be between %d and %d, got %d", MinYear, MaxYear, year)
	}
	habits, err := e.habits.ListHabits(ctx, templateID, userID)
	if err != nil {
		return nil, err
	}
	if habitID != "" {
		h, ok := findHabit(habits, habitID)
		if !ok {
			return nil, fmt.Errorf("habit %s in template %s: %w", habitID, templateID, errs.ErrNotFound)
		}
		habits = []habit.Habit{h}
	}

	names := make(map[string]string, len(habits))
	for _, h := range habits {
		names[h.ID] = h.Name
	}

	rows, err := e.ledger.List(ctx, ledger.Filter{
		UserID:   userID,
		HabitIDs: habitIDs(habits),
		Start:    fmt.Sprintf("%04d-01-01", year),
		End:      fmt.Sprintf("%04d-12-31", year),
	})
	if err != nil {
		return nil, fmt.Errorf("loading %d: %w", year, err)
	}

	res := &CalendarResult{Year: year, Data: []CalendarDay{}}
	index := make(map[string]int)
	contributed := make(map[string]map[string]bool)
	for _, c := range rows {
		i, ok := index[c.Date]
		if !ok {
			i = len(res.Data)
			index[c.Date] = i
			contributed[c.Date] = make(map[string]bool)
			res.Data = append(res.Data, CalendarDay{Date: c.Date, Habits: []HabitRef{}})
		}
		res.Data[i].Completions++
		if !contributed[c.Date][c.HabitID] {
			contributed[c.Date][c.HabitID] = true
			res.Data[i].Habits = append(res.Data[i].Habits, HabitRef{HabitID: c.HabitID, HabitName: names[c.HabitID]})
		}
	}
	sort.SliceStable(res.Data, func(i, j int) bool { return res.Data[i].Date < res.Data[j].Date })
	return res, nil
}

// HabitStreak is one habit's streak summary over its whole history.
type HabitStreak struct {
	HabitID            string  `json:"habitId"`
	HabitName          string  `json:"habitName"`
	HabitIcon          string  `json:"habitIcon"`
	CurrentStreak      int     `json:"currentStreak"`
	LongestStreak      int     `json:"longestStreak"`
	StreakStartDate    *string `json:"streakStartDate"`
	LastCompletionDate *string `json:"lastCompletionDate"`
}

// Streaks returns the current and longest streak of every habit in a template.
func (e *Engine) Streaks(ctx context.Context, userID, templateID, today string) ([]HabitStreak, error) {
	if _, err := day.Parse(today); err != nil {
		return nil, err
	}
	habits, err := e.habits.ListHabits(ctx, templateID, userID)
	if err != nil {
		return nil, err
	}

	rows, err := e.ledger.List(ctx, ledger.Filter{UserID: userID, HabitIDs: habitIDs(habits)})
	if err != nil {
		return nil, fmt.Errorf("loading completions: %w", err)
	}
	byHabit := make(map[string][]string)
	for _, c := range rows {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c.Date)
	}

	out := make([]HabitStreak, 0, len(habits))
	for _, h := range habits {
		info := streak.Compute(byHabit[h.ID], today)
		hs := HabitStreak{
			HabitID:       h.ID,
			HabitName:     h.Name,
			HabitIcon:     h.Icon,
			CurrentStreak: info.Current,
			LongestStreak: info.Longest,
		}
		if info.StartDate != "" {
			hs.StreakStartDate = strPtr(info.StartDate)
		}
		if info.LastDate != "" {
			hs.LastCompletionDate = strPtr(info.LastDate)
		}
		out = append(out, hs)
	}
	return out, nil
}

// CountsForDate maps habit id to the completion count recorded on date.
// Habits without a row are absent.
func (e *Engine) CountsForDate(ctx context.Context, userID, date string) (map[string]int, error) {
	rows, err := e.dayRows(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, c := range rows {
		counts[c.HabitID] = c.Count
	}
	return counts, nil
}

// CompletedForDate returns the ids of habits with a completion on date,
// sorted.
func (e *Engine) CompletedForDate(ctx context.Context, userID, date string) ([]string, error) {
	rows, err := e.dayRows(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, c := range rows {
		ids = append(ids, c.HabitID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (e *Engine) dayRows(ctx context.Context, userID, date string) ([]ledger.Completion, error) {
	if _, err := day.Parse(date); err != nil {
		return nil, err
	}
	rows, err := e.ledger.List(ctx, ledger.Filter{UserID: userID, Start: date, End: date})
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", date, err)
	}
	return rows, nil
}

func findHabit(habits []habit.Habit, id string) (habit.Habit, bool) {
	for _, h := range habits {
		if h.ID == id {
			return h, true
		}
	}
	return habit.Habit{}, false
}
