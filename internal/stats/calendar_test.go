package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/rnwolfe/tally/internal/errs"
	"github.com/rnwolfe/tally/internal/habit"
)

func TestCalendarSingleEntry(t *testing.T) {
	e := setup(t)
	e.addHabit(t, "A", habit.OncePerDay)
	b := e.addHabit(t, "B", habit.Repeatable)
	e.complete(t, b, "2024-06-15", 1)
	e.complete(t, b, "2023-06-15", 1)

	cal, err := e.engine.Calendar(context.Background(), "u1", e.tpl.ID, 2024, "")
	if err != nil {
		t.Fatal(err)
	}
	if cal.Year != 2024 {
		t.Errorf("Year = %d", cal.Year)
	}
	if len(cal.Data) != 1 {
		t.Fatalf("got %d days, want 1: %+v", len(cal.Data), cal.Data)
	}
	d := cal.Data[0]
	if d.Date != "2024-06-15" || d.Completions != 1 {
		t.Errorf("day = %+v", d)
	}
	if len(d.Habits) != 1 || d.Habits[0].HabitID != b.ID || d.Habits[0].HabitName != "B" {
		t.Errorf("habits = %+v, want [B]", d.Habits)
	}
}

func TestCalendarGroupsAndFilters(t *testing.T) {
	e := setup(t)
	a := e.addHabit(t, "A", habit.OncePerDay)
	b := e.addHabit(t, "B", habit.Repeatable)
	e.complete(t, a, "2024-12-31", 1)
	e.complete(t, a, "2024-01-01", 1)
	e.complete(t, b, "2024-01-01", 4)
	ctx := context.Background()

	cal, err := e.engine.Calendar(ctx, "u1", e.tpl.ID, 2024, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(cal.Data) != 2 || cal.Data[0].Date != "2024-01-01" || cal.Data[1].Date != "2024-12-31" {
		t.Fatalf("data = %+v, want Jan 1 then Dec 31", cal.Data)
	}
	if cal.Data[0].Completions != 2 || len(cal.Data[0].Habits) != 2 {
		t.Errorf("Jan 1 = %+v, want 2 rows from 2 habits", cal.Data[0])
	}

	only, err := e.engine.Calendar(ctx, "u1", e.tpl.ID, 2024, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(only.Data) != 1 || only.Data[0].Habits[0].HabitID != b.ID {
		t.Errorf("filtered = %+v, want only B on Jan 1", only.Data)
	}
}

func TestCalendarErrors(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	for _, year := range []int{MinYear - 1, MaxYear + 1} {
		if _, err := e.engine.Calendar(ctx, "u1", e.tpl.ID, year, ""); !errors.Is(err, errs.ErrValidation) {
			t.Errorf("year %d err = %v, want ErrValidation", year, err)
		}
	}
	if _, err := e.engine.Calendar(ctx, "u1", e.tpl.ID, 2024, "missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("unknown habit err = %v, want ErrNotFound", err)
	}

	cal, err := e.engine.Calendar(ctx, "u1", e.tpl.ID, 2024, "")
	if err != nil {
		t.Fatal(err)
	}
	if cal.Data == nil || len(cal.Data) != 0 {
		t.Errorf("empty calendar data = %#v, want empty slice", cal.Data)
	}
}

func TestStreaks(t *testing.T) {
	e := setup(t)
	a := e.addHabit(t, "A", habit.OncePerDay)
	e.addHabit(t, "B", habit.OncePerDay)
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05", "2024-01-06"} {
		e.complete(t, a, d, 1)
	}

	streaks, err := e.engine.Streaks(context.Background(), "u1", e.tpl.ID, "2024-01-06")
	if err != nil {
		t.Fatal(err)
	}
	if len(streaks) != 2 {
		t.Fatalf("got %d habits, want 2", len(streaks))
	}
	sa, sb := streaks[0], streaks[1]
	if sa.CurrentStreak != 2 || sa.LongestStreak != 3 {
		t.Errorf("A streaks = %d/%d, want 2/3", sa.CurrentStreak, sa.LongestStreak)
	}
	if sa.StreakStartDate == nil || *sa.StreakStartDate != "2024-01-05" {
		t.Errorf("A StreakStartDate = %v, want 2024-01-05", sa.StreakStartDate)
	}
	if sa.LastCompletionDate == nil || *sa.LastCompletionDate != "2024-01-06" {
		t.Errorf("A LastCompletionDate = %v, want 2024-01-06", sa.LastCompletionDate)
	}
	if sb.CurrentStreak != 0 || sb.LongestStreak != 0 || sb.StreakStartDate != nil || sb.LastCompletionDate != nil {
		t.Errorf("B = %+v, want zero streaks and nil dates", sb)
	}
}

func TestDateQueries(t *testing.T) {
	e := setup(t)
	a := e.addHabit(t, "A", habit.OncePerDay)
	b := e.addHabit(t, "B", habit.Repeatable)
	e.complete(t, a, "2024-04-01", 1)
	e.complete(t, b, "2024-04-01", 5)
	e.complete(t, b, "2024-04-02", 1)
	ctx := context.Background()

	counts, err := e.engine.CountsForDate(ctx, "u1", "2024-04-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 2 || counts[a.ID] != 1 || counts[b.ID] != 5 {
		t.Errorf("CountsForDate = %v", counts)
	}

	ids, err := e.engine.CompletedForDate(ctx, "u1", "2024-04-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != b.ID {
		t.Errorf("CompletedForDate = %v, want [%s]", ids, b.ID)
	}

	if _, err := e.engine.CountsForDate(ctx, "u1", "April 1"); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("bad date err = %v, want ErrValidation", err)
	}
}
