package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/rnwolfe/tally/internal/errs"
	"github.com/rnwolfe/tally/internal/habit"
	"github.com/rnwolfe/tally/internal/ledger"
	"github.com/rnwolfe/tally/internal/store"
)

type env struct {
	engine *Engine
	habits *habit.Store
	ledger *ledger.SQLStore
	tpl    *habit.Template
}

func setup(t *testing.T) env {
	t.Helper()
	db, err := store.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	hs := habit.NewStore(db)
	tpl, err := hs.CreateTemplate(context.Background(), "u1", "Daily")
	if err != nil {
		t.Fatal(err)
	}
	l := ledger.NewSQLStore(db)
	return env{engine: New(hs, l), habits: hs, ledger: l, tpl: tpl}
}

func (e env) addHabit(t *testing.T, name string, typ habit.Type) *habit.Habit {
	t.Helper()
	h, err := e.habits.AddHabit(context.Background(), e.tpl.ID, "u1", habit.NewHabit{Icon: "*", Name: name, Type: typ})
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func (e env) complete(t *testing.T, h *habit.Habit, date string, count int) {
	t.Helper()
	if _, err := e.ledger.Create(context.Background(), ledger.Key{UserID: "u1", HabitID: h.ID, Date: date}, count); err != nil {
		t.Fatalf("Create(%s, %s): %v", h.Name, date, err)
	}
}

// twoHabitScenario: A done on Jan 1 and 2, B done three times on Jan 2.
func twoHabitScenario(t *testing.T) (env, *habit.Habit, *habit.Habit) {
	t.Helper()
	e := setup(t)
	a := e.addHabit(t, "A", habit.OncePerDay)
	b := e.addHabit(t, "B", habit.Repeatable)
	e.complete(t, a, "2024-01-01", 1)
	e.complete(t, a, "2024-01-02", 1)
	e.complete(t, b, "2024-01-02", 3)
	return e, a, b
}

func TestStatisticsScenario(t *testing.T) {
	e, a, b := twoHabitScenario(t)

	s, err := e.engine.Statistics(context.Background(), "u1", e.tpl.ID,
		Range{Start: "2024-01-01", End: "2024-01-02"}, "2024-01-02")
	if err != nil {
		t.Fatal(err)
	}

	if s.TotalHabits != 2 {
		t.Errorf("TotalHabits = %d, want 2", s.TotalHabits)
	}
	if s.TotalCompletions != 3 {
		t.Errorf("TotalCompletions = %d, want 3 (rows, not count sum)", s.TotalCompletions)
	}
	if s.TotalDaysTracked != 2 {
		t.Errorf("TotalDaysTracked = %d, want 2", s.TotalDaysTracked)
	}
	if s.OverallCompletionRate != 75 {
		t.Errorf("OverallCompletionRate = %v, want 75", s.OverallCompletionRate)
	}
	if s.CurrentStreak != 2 || s.LongestStreak != 2 {
		t.Errorf("streaks = %d/%d, want 2/2", s.CurrentStreak, s.LongestStreak)
	}
	if s.AverageCompletionsPerDay != 1.5 {
		t.Errorf("AverageCompletionsPerDay = %v, want 1.5", s.AverageCompletionsPerDay)
	}

	if len(s.Habits) != 2 {
		t.Fatalf("got %d habit rows, want 2", len(s.Habits))
	}
	ha, hb := s.Habits[0], s.Habits[1]
	if ha.HabitID != a.ID || ha.CompletionRate != 100 || ha.CurrentStreak != 2 {
		t.Errorf("habit A = %+v", ha)
	}
	if *ha.FirstCompletionDate != "2024-01-01" || *ha.LastCompletionDate != "2024-01-02" {
		t.Errorf("habit A first/last = %s/%s", *ha.FirstCompletionDate, *ha.LastCompletionDate)
	}
	if hb.HabitID != b.ID || hb.TotalCompletions != 1 || hb.CompletionRate != 50 {
		t.Errorf("habit B = %+v", hb)
	}
}

func TestStatisticsInferredRange(t *testing.T) {
	e, _, _ := twoHabitScenario(t)

	// No bounds: range runs from the first completion to today, 4 days.
	s, err := e.engine.Statistics(context.Background(), "u1", e.tpl.ID, Range{}, "2024-01-04")
	if err != nil {
		t.Fatal(err)
	}
	if s.OverallCompletionRate != 37.5 {
		t.Errorf("OverallCompletionRate = %v, want 37.5", s.OverallCompletionRate)
	}
	if s.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0 when today has no completion", s.CurrentStreak)
	}
	if s.LongestStreak != 2 {
		t.Errorf("LongestStreak = %d, want 2", s.LongestStreak)
	}
}

func TestStatisticsRounding(t *testing.T) {
	e := setup(t)
	h := e.addHabit(t, "Run", habit.OncePerDay)
	e.complete(t, h, "2024-01-01", 1)

	s, err := e.engine.Statistics(context.Background(), "u1", e.tpl.ID,
		Range{Start: "2024-01-01", End: "2024-01-03"}, "2024-01-03")
	if err != nil {
		t.Fatal(err)
	}
	if s.OverallCompletionRate != 33.33 {
		t.Errorf("OverallCompletionRate = %v, want 33.33", s.OverallCompletionRate)
	}
}

func TestStatisticsEmptyAndInverted(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	s, err := e.engine.Statistics(ctx, "u1", e.tpl.ID, Range{}, "2024-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalHabits != 0 || s.OverallCompletionRate != 0 || s.Habits == nil || len(s.Habits) != 0 {
		t.Errorf("empty template = %+v, want zeroed with empty habit list", s)
	}

	h := e.addHabit(t, "Run", habit.OncePerDay)
	e.complete(t, h, "2024-01-05", 1)

	// End before start: empty range, rates stay 0.
	s, err = e.engine.Statistics(ctx, "u1", e.tpl.ID, Range{Start: "2024-01-10", End: "2024-01-01"}, "2024-01-10")
	if err != nil {
		t.Fatal(err)
	}
	if s.OverallCompletionRate != 0 || s.Habits[0].CompletionRate != 0 {
		t.Errorf("inverted range rates = %v / %v, want 0", s.OverallCompletionRate, s.Habits[0].CompletionRate)
	}
	if s.Habits[0].FirstCompletionDate != nil {
		t.Errorf("FirstCompletionDate = %v, want nil", *s.Habits[0].FirstCompletionDate)
	}
}

func TestStatisticsErrors(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	if _, err := e.engine.Statistics(ctx, "u2", e.tpl.ID, Range{}, "2024-01-01"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("foreign template err = %v, want ErrNotFound", err)
	}
	if _, err := e.engine.Statistics(ctx, "u1", e.tpl.ID, Range{Start: "yesterday"}, "2024-01-01"); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("bad start err = %v, want ErrValidation", err)
	}
	if _, err := e.engine.Statistics(ctx, "u1", e.tpl.ID, Range{}, ""); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("missing today err = %v, want ErrValidation", err)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		num, den int
		want     float64
	}{
		{3, 4, 75},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 0, 0},
		{5, -2, 0},
		{0, 7, 0},
		{10, 5, 200},
	}
	for _, tt := range tests {
		if got := percent(tt.num, tt.den); got != tt.want {
			t.Errorf("percent(%d, %d) = %v, want %v", tt.num, tt.den, got, tt.want)
		}
	}
}
