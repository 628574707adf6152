// Package completion applies user actions to the ledger: toggling a habit for
// a day and decreasing a repeatable habit's count.
package completion

import (
	"context"
	"fmt"

	"github.com/rnwolfe/tally/internal/day"
	"github.com/rnwolfe/tally/internal/errs"
	"github.com/rnwolfe/tally/internal/habit"
	"github.com/rnwolfe/tally/internal/ledger"
	"github.com/rnwolfe/tally/internal/logger"
)

// HabitFinder looks up a habit scoped to its owner. *habit.Store satisfies it.
type HabitFinder interface {
	FindHabit(ctx context.Context, id, userID string) (*habit.Habit, error)
}

// Mutator changes completion state for one (user, habit, day) at a time.
type Mutator struct {
	habits HabitFinder
	ledger ledger.Store
}

// New creates a Mutator.
func New(habits HabitFinder, l ledger.Store) *Mutator {
	return &Mutator{habits: habits, ledger: l}
}

// Toggle flips a once-per-day habit between done and not done, or adds one
// completion to a repeatable habit. It returns the row after the change, or
// nil when a once-per-day habit was un-completed.
func (m *Mutator) Toggle(ctx context.Context, userID, habitID, date string) (*ledger.Completion, error) {
	h, k, err := m.resolve(ctx, userID, habitID, date)
	if err != nil {
		return nil, err
	}

	if h.IsRepeatable() {
		c, err := m.ledger.Increment(ctx, k)
		if err != nil {
			return nil, err
		}
		logger.Debug("completion incremented", "habit", h.ID, "date", date, "count", c.Count)
		return c, nil
	}

	removed, err := m.ledger.Delete(ctx, k)
	if err != nil {
		return nil, err
	}
	if removed {
		logger.Debug("completion removed", "habit", h.ID, "date", date)
		return nil, nil
	}

	c, err := m.ledger.Create(ctx, k, 1)
	if err != nil {
		return nil, err
	}
	logger.Debug("completion created", "habit", h.ID, "date", date)
	return c, nil
}

// Decrease removes one completion from a repeatable habit. Reaching zero
// deletes the row; decreasing a day with no row is a no-op. Both return nil.
func (m *Mutator) Decrease(ctx context.Context, userID, habitID, date string) (*ledger.Completion, error) {
	h, k, err := m.resolve(ctx, userID, habitID, date)
	if err != nil {
		return nil, err
	}
	if !h.IsRepeatable() {
		return nil, fmt.Errorf("cannot decrease %q, it is a %s habit: %w", h.Name, h.Type.Label(), errs.ErrInvalidOperation)
	}

	c, err := m.ledger.Decrement(ctx, k)
	if err != nil {
		return nil, err
	}
	if c == nil {
		logger.Debug("completion decreased to zero", "habit", h.ID, "date", date)
	} else {
		logger.Debug("completion decreased", "habit", h.ID, "date", date, "count", c.Count)
	}
	return c, nil
}

func (m *Mutator) resolve(ctx context.Context, userID, habitID, date string) (*habit.Habit, ledger.Key, error) {
	if _, err := day.Parse(date); err != nil {
		return nil, ledger.Key{}, err
	}
	h, err := m.habits.FindHabit(ctx, habitID, userID)
	if err != nil {
		return nil, ledger.Key{}, err
	}
	return h, ledger.Key{UserID: userID, HabitID: h.ID, Date: date}, nil
}
