package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/rnwolfe/tally/internal/errs"
	"github.com/rnwolfe/tally/internal/habit"
)

func TestWeeklyEmpty(t *testing.T) {
	e := setup(t)
	a := e.addHabit(t, "A", habit.OncePerDay)
	b := e.addHabit(t, "B", habit.Repeatable)

	weeks, err := e.engine.Weekly(context.Background(), "u1", e.tpl.ID, 1, "2024-01-10")
	if err != nil {
		t.Fatal(err)
	}
	if len(weeks) != 1 {
		t.Fatalf("got %d weeks, want 1", len(weeks))
	}
	w := weeks[0]
	if w.WeekStart != "2024-01-07" || w.WeekEnd != "2024-01-10" {
		t.Errorf("week = %s..%s, want 2024-01-07..2024-01-10", w.WeekStart, w.WeekEnd)
	}
	if w.TotalCompletions != 0 || w.CompletionRate != 0 {
		t.Errorf("totals = %d / %v, want 0 / 0", w.TotalCompletions, w.CompletionRate)
	}
	if len(w.HabitsCompleted) != 2 {
		t.Fatalf("HabitsCompleted = %+v, want both habits", w.HabitsCompleted)
	}
	for i, id := range []string{a.ID, b.ID} {
		if hc := w.HabitsCompleted[i]; hc.HabitID != id || hc.DaysCompleted != 0 {
			t.Errorf("HabitsCompleted[%d] = %+v", i, hc)
		}
	}
}

func TestWeeklyBuckets(t *testing.T) {
	e, a, b := twoHabitScenario(t)

	weeks, err := e.engine.Weekly(context.Background(), "u1", e.tpl.ID, 2, "2024-01-10")
	if err != nil {
		t.Fatal(err)
	}
	if len(weeks) != 2 {
		t.Fatalf("got %d weeks, want 2", len(weeks))
	}

	older, newer := weeks[0], weeks[1]
	if older.WeekStart != "2023-12-31" || newer.WeekStart != "2024-01-07" {
		t.Fatalf("weeks start %s, %s; want oldest first", older.WeekStart, newer.WeekStart)
	}
	if older.TotalCompletions != 3 || older.CompletionRate != 21.43 {
		t.Errorf("older week = %d / %v, want 3 / 21.43", older.TotalCompletions, older.CompletionRate)
	}
	want := map[string]int{a.ID: 2, b.ID: 1}
	for _, hc := range older.HabitsCompleted {
		if hc.DaysCompleted != want[hc.HabitID] {
			t.Errorf("%s DaysCompleted = %d, want %d", hc.HabitName, hc.DaysCompleted, want[hc.HabitID])
		}
	}
	if newer.TotalCompletions != 0 {
		t.Errorf("newer week TotalCompletions = %d, want 0", newer.TotalCompletions)
	}
}

func TestWeeklyWindowEndsAtReferenceDay(t *testing.T) {
	e := setup(t)
	a := e.addHabit(t, "A", habit.OncePerDay)
	// Wed Jan 10 is today; Fri Jan 5 falls after the older week's reference
	// day (Wed Jan 3) but before that week's Saturday.
	e.complete(t, a, "2024-01-05", 1)
	e.complete(t, a, "2024-01-02", 1)

	weeks, err := e.engine.Weekly(context.Background(), "u1", e.tpl.ID, 2, "2024-01-10")
	if err != nil {
		t.Fatal(err)
	}
	older, newer := weeks[0], weeks[1]
	if older.WeekStart != "2023-12-31" || older.WeekEnd != "2024-01-03" {
		t.Errorf("older week = %s..%s, want 2023-12-31..2024-01-03", older.WeekStart, older.WeekEnd)
	}
	if older.TotalCompletions != 1 || older.HabitsCompleted[0].DaysCompleted != 1 {
		t.Errorf("older week = %+v, want only the Jan 2 completion", older)
	}
	if older.CompletionRate != 14.29 {
		t.Errorf("older week rate = %v, want 14.29 over a 7-day denominator", older.CompletionRate)
	}
	if newer.WeekStart != "2024-01-07" || newer.WeekEnd != "2024-01-10" {
		t.Errorf("newer week = %s..%s, want 2024-01-07..2024-01-10", newer.WeekStart, newer.WeekEnd)
	}
	if newer.TotalCompletions != 0 {
		t.Errorf("newer week TotalCompletions = %d, want 0", newer.TotalCompletions)
	}
}

func TestMonthly(t *testing.T) {
	e, _, _ := twoHabitScenario(t)

	months, err := e.engine.Monthly(context.Background(), "u1", e.tpl.ID, 3, "2024-02-15")
	if err != nil {
		t.Fatal(err)
	}
	if len(months) != 3 {
		t.Fatalf("got %d months, want 3", len(months))
	}

	names := []string{"December 2023", "January 2024", "February 2024"}
	keys := []string{"2023-12", "2024-01", "2024-02"}
	for i, m := range months {
		if m.MonthName != names[i] || m.Month != keys[i] {
			t.Errorf("months[%d] = %s (%s), want %s (%s)", i, m.MonthName, m.Month, names[i], keys[i])
		}
	}

	jan := months[1]
	if jan.TotalCompletions != 3 {
		t.Errorf("January TotalCompletions = %d, want 3", jan.TotalCompletions)
	}
	if jan.CompletionRate != 4.84 {
		t.Errorf("January CompletionRate = %v, want 4.84", jan.CompletionRate)
	}
	if jan.AverageCompletionsPerDay != 0.1 {
		t.Errorf("January AverageCompletionsPerDay = %v, want 0.1", jan.AverageCompletionsPerDay)
	}
	if jan.BestDay == nil || jan.BestDay.Date != "2024-01-02" || jan.BestDay.Completions != 2 {
		t.Errorf("January BestDay = %+v, want 2024-01-02 with 2", jan.BestDay)
	}
	if months[0].BestDay != nil {
		t.Errorf("December BestDay = %+v, want nil", months[0].BestDay)
	}
}

func TestMonthlyBestDayTieGoesToEarliest(t *testing.T) {
	e := setup(t)
	a := e.addHabit(t, "A", habit.OncePerDay)
	b := e.addHabit(t, "B", habit.OncePerDay)
	e.complete(t, b, "2024-03-09", 1)
	e.complete(t, a, "2024-03-04", 1)

	months, err := e.engine.Monthly(context.Background(), "u1", e.tpl.ID, 1, "2024-03-20")
	if err != nil {
		t.Fatal(err)
	}
	if bd := months[0].BestDay; bd == nil || bd.Date != "2024-03-04" {
		t.Errorf("BestDay = %+v, want 2024-03-04", bd)
	}
}

func TestMonthlyYearRollover(t *testing.T) {
	e := setup(t)
	months, err := e.engine.Monthly(context.Background(), "u1", e.tpl.ID, 14, "2024-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if months[0].Month != "2022-12" || months[13].Month != "2024-01" {
		t.Errorf("range = %s..%s, want 2022-12..2024-01", months[0].Month, months[13].Month)
	}
	if months[0].CompletionRate != 0 {
		t.Errorf("rate with no habits = %v, want 0", months[0].CompletionRate)
	}
}

func TestRollupBounds(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	for _, n := range []int{0, -1, MaxWeeks + 1} {
		if _, err := e.engine.Weekly(ctx, "u1", e.tpl.ID, n, "2024-01-01"); !errors.Is(err, errs.ErrValidation) {
			t.Errorf("Weekly(%d) err = %v, want ErrValidation", n, err)
		}
	}
	for _, n := range []int{0, MaxMonths + 1} {
		if _, err := e.engine.Monthly(ctx, "u1", e.tpl.ID, n, "2024-01-01"); !errors.Is(err, errs.ErrValidation) {
			t.Errorf("Monthly(%d) err = %v, want ErrValidation", n, err)
		}
	}
	if _, err := e.engine.Weekly(ctx, "u1", e.tpl.ID, 1, "2024-13-01"); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("Weekly with bad today err = %v, want ErrValidation", err)
	}
}
