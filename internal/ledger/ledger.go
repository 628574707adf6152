// Package ledger stores habit completions: at most one row per
// (user, habit, calendar day) carrying a positive count.
//
// A missing row means zero completions on that day. Writes that depend on the
// current row are single conditional statements (or one transaction), never a
// read followed by a write, so concurrent callers cannot create duplicate rows
// or lose an increment.
package ledger

import (
	"context"
	"time"
)

// Key addresses a single ledger row.
type Key struct {
	UserID  string
	HabitID string
	Date    string
}

// Completion is one ledger row.
type Completion struct {
	ID        string
	UserID    string
	HabitID   string
	Date      string
	Count     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key returns the row's address.
func (c Completion) Key() Key {
	return Key{UserID: c.UserID, HabitID: c.HabitID, Date: c.Date}
}

// Filter narrows List. Zero-valued fields do not filter.
type Filter struct {
	UserID string
	// HabitIDs restricts rows to these habits. Nil means every habit; an
	// empty non-nil slice matches nothing.
	HabitIDs []string
	// Start and End are inclusive calendar-day bounds.
	Start string
	End   string
}

// Reader is the read side of the ledger used by the statistics engine.
type Reader interface {
	// List returns matching rows ordered by date, then habit id.
	List(ctx context.Context, f Filter) ([]Completion, error)
}

// Store is the full ledger collaborator.
type Store interface {
	Reader

	// Find returns the row at k, or nil when there is none.
	Find(ctx context.Context, k Key) (*Completion, error)
	// Create inserts a row. It fails with errs.ErrConflict if the key exists.
	Create(ctx context.Context, k Key, count int) (*Completion, error)
	// Update sets the count of an existing row. count must be >= 1.
	Update(ctx context.Context, k Key, count int) (*Completion, error)
	// Delete removes the row at k and reports whether one existed.
	Delete(ctx context.Context, k Key) (bool, error)

	// Increment creates the row with count 1 or adds 1 to it, atomically.
	Increment(ctx context.Context, k Key) (*Completion, error)
	// Decrement subtracts 1, deleting the row when it reaches 0. It returns
	// the updated row, or nil when the row was deleted or never existed.
	Decrement(ctx context.Context, k Key) (*Completion, error)
}
