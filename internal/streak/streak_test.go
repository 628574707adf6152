package streak

import (
	"testing"

	"github.com/rnwolfe/tally/internal/day"
)

func TestCompute_Empty(t *testing.T) {
	info := Compute(nil, "2026-02-26")
	if info.Current != 0 || info.Longest != 0 {
		t.Fatalf("expected 0,0 for empty dates, got %d,%d", info.Current, info.Longest)
	}
	if info.StartDate != "" || info.LastDate != "" {
		t.Errorf("expected empty dates, got start=%q last=%q", info.StartDate, info.LastDate)
	}
}

func TestCompute_TodayOnly(t *testing.T) {
	info := Compute([]string{"2026-02-26"}, "2026-02-26")
	if info.Current != 1 {
		t.Errorf("current streak = %d, want 1", info.Current)
	}
	if info.Longest != 1 {
		t.Errorf("longest streak = %d, want 1", info.Longest)
	}
	if info.StartDate != "2026-02-26" {
		t.Errorf("start date = %q, want 2026-02-26", info.StartDate)
	}
}

func TestCompute_TodayAbsentMeansZero(t *testing.T) {
	// No grace period: yesterday alone does not keep the streak alive.
	dates := []string{"2026-02-25", "2026-02-24", "2026-02-23"}
	info := Compute(dates, "2026-02-26")
	if info.Current != 0 {
		t.Errorf("current streak = %d, want 0 (today missing)", info.Current)
	}
	if info.Longest != 3 {
		t.Errorf("longest streak = %d, want 3", info.Longest)
	}
	if info.StartDate != "" {
		t.Errorf("start date = %q, want empty", info.StartDate)
	}
	if info.LastDate != "2026-02-25" {
		t.Errorf("last date = %q, want 2026-02-25", info.LastDate)
	}
}

func TestCompute_ConsecutiveThreeDays(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	info := Compute(dates, "2024-01-03")
	if info.Current != 3 {
		t.Errorf("current streak = %d, want 3", info.Current)
	}
	if info.Longest != 3 {
		t.Errorf("longest streak = %d, want 3", info.Longest)
	}
	if info.StartDate != "2024-01-01" {
		t.Errorf("start date = %q, want 2024-01-01", info.StartDate)
	}
}

func TestCompute_GapSplitsRuns(t *testing.T) {
	// Old 5-day run Feb 10-14, current 2-day run Feb 25-26.
	dates := []string{
		"2026-02-10", "2026-02-26", "2026-02-12",
		"2026-02-25", "2026-02-14", "2026-02-11", "2026-02-13",
	}
	info := Compute(dates, "2026-02-26")
	if info.Current != 2 {
		t.Errorf("current streak = %d, want 2", info.Current)
	}
	if info.Longest != 5 {
		t.Errorf("longest streak = %d, want 5", info.Longest)
	}
}

func TestCompute_GapDayBreaksLongest(t *testing.T) {
	// d, d+1, d+3: two runs of 2 and 1.
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-04"}
	info := Compute(dates, "2024-01-10")
	if info.Longest != 2 {
		t.Errorf("longest streak = %d, want 2", info.Longest)
	}
}

func TestCompute_DuplicatesAndGarbageIgnored(t *testing.T) {
	dates := []string{"2024-01-02", "2024-01-02", "bogus", "2024-01-01"}
	info := Compute(dates, "2024-01-02")
	if info.Current != 2 || info.Longest != 2 {
		t.Errorf("got current=%d longest=%d, want 2,2", info.Current, info.Longest)
	}
}

func TestCompute_CrossesMonthAndYear(t *testing.T) {
	dates := []string{"2023-12-30", "2023-12-31", "2024-01-01"}
	info := Compute(dates, "2024-01-01")
	if info.Current != 3 || info.Longest != 3 {
		t.Errorf("got current=%d longest=%d, want 3,3", info.Current, info.Longest)
	}
}

func TestCompute_CurrentCappedAtLookback(t *testing.T) {
	start, _ := day.Parse("2023-01-01")
	var dates []string
	for i := 0; i < 400; i++ {
		dates = append(dates, day.Format(day.AddDays(start, i)))
	}
	today := dates[len(dates)-1]

	info := Compute(dates, today)
	if info.Current != MaxLookback {
		t.Errorf("current streak = %d, want %d (lookback cap)", info.Current, MaxLookback)
	}
	if info.Longest != 400 {
		t.Errorf("longest streak = %d, want 400 (uncapped)", info.Longest)
	}
}
