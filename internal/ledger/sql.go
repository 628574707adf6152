package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rnwolfe/tally/internal/day"
	"github.com/rnwolfe/tally/internal/errs"
	"github.com/rnwolfe/tally/internal/store"
)

const completionColumns = `id, user_id, habit_id, date, count, created_at, updated_at`

// SQLStore is the ledger on SQLite or PostgreSQL.
type SQLStore struct {
	db  *store.DB
	now func() time.Time
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore creates a ledger over an open database.
func NewSQLStore(db *store.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func validateKey(k Key) error {
	if k.UserID == "" || k.HabitID == "" {
		return fmt.Errorf("ledger key needs a user and a habit: %w", errs.ErrValidation)
	}
	_, err := day.Parse(k.Date)
	return err
}

// Find returns the row at k, or nil when there is none.
func (s *SQLStore) Find(ctx context.Context, k Key) (*Completion, error) {
	if err := validateKey(k); err != nil {
		return nil, err
	}
	row := s.db.Conn().QueryRowContext(ctx, s.db.Rebind(
		`SELECT `+completionColumns+` FROM habit_completions
		 WHERE user_id = ? AND habit_id = ? AND date = ?`),
		k.UserID, k.HabitID, k.Date)
	c, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding completion: %w", err)
	}
	return c, nil
}

// List returns matching rows ordered by date, then habit id.
func (s *SQLStore) List(ctx context.Context, f Filter) ([]Completion, error) {
	if f.HabitIDs != nil && len(f.HabitIDs) == 0 {
		return nil, nil
	}

	var where []string
	var args []any
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if len(f.HabitIDs) > 0 {
		where = append(where, "habit_id IN ("+store.Placeholders(len(f.HabitIDs))+")")
		for _, id := range f.HabitIDs {
			args = append(args, id)
		}
	}
	if f.Start != "" {
		if _, err := day.Parse(f.Start); err != nil {
			return nil, err
		}
		where = append(where, "date >= ?")
		args = append(args, f.Start)
	}
	if f.End != "" {
		if _, err := day.Parse(f.End); err != nil {
			return nil, err
		}
		where = append(where, "date <= ?")
		args = append(args, f.End)
	}

	query := `SELECT ` + completionColumns + ` FROM habit_completions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date, habit_id`

	rows, err := s.db.Conn().QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Create inserts a row. A row already at k yields errs.ErrConflict; the
// uniqueness constraint decides, not a prior read.
func (s *SQLStore) Create(ctx context.Context, k Key, count int) (*Completion, error) {
	if err := validateKey(k); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d: %w", count, errs.ErrValidation)
	}

	ts := store.Timestamp(s.now())
	row := s.db.Conn().QueryRowContext(ctx, s.db.Rebind(
		`INSERT INTO habit_completions (`+completionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, habit_id, date) DO NOTHING
		 RETURNING `+completionColumns),
		uuid.New().String(), k.UserID, k.HabitID, k.Date, count, ts, ts)
	c, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("completion for %s on %s already exists: %w", k.HabitID, k.Date, errs.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("creating completion: %w", err)
	}
	return c, nil
}

// Update sets the count of an existing row.
func (s *SQLStore) Update(ctx context.Context, k Key, count int) (*Completion, error) {
	if err := validateKey(k); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d: %w", count, errs.ErrValidation)
	}

	row := s.db.Conn().QueryRowContext(ctx, s.db.Rebind(
		`UPDATE habit_completions SET count = ?, updated_at = ?
		 WHERE user_id = ? AND habit_id = ? AND date = ?
		 RETURNING `+completionColumns),
		count, store.Timestamp(s.now()), k.UserID, k.HabitID, k.Date)
	c, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("completion for %s on %s: %w", k.HabitID, k.Date, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("updating completion: %w", err)
	}
	return c, nil
}

// Delete removes the row at k and reports whether one existed.
func (s *SQLStore) Delete(ctx context.Context, k Key) (bool, error) {
	if err := validateKey(k); err != nil {
		return false, err
	}
	res, err := s.db.Conn().ExecContext(ctx, s.db.Rebind(
		`DELETE FROM habit_completions WHERE user_id = ? AND habit_id = ? AND date = ?`),
		k.UserID, k.HabitID, k.Date)
	if err != nil {
		return false, fmt.Errorf("deleting completion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Increment creates the row with count 1 or adds 1 to it in one upsert.
func (s *SQLStore) Increment(ctx context.Context, k Key) (*Completion, error) {
	if err := validateKey(k); err != nil {
		return nil, err
	}

	ts := store.Timestamp(s.now())
	row := s.db.Conn().QueryRowContext(ctx, s.db.Rebind(
		`INSERT INTO habit_completions (`+completionColumns+`)
		 VALUES (?, ?, ?, ?, 1, ?, ?)
		 ON CONFLICT (user_id, habit_id, date)
		 DO UPDATE SET count = habit_completions.count + 1, updated_at = excluded.updated_at
		 RETURNING `+completionColumns),
		uuid.New().String(), k.UserID, k.HabitID, k.Date, ts, ts)
	c, err := scanCompletion(row)
	if err != nil {
		return nil, fmt.Errorf("incrementing completion: %w", err)
	}
	return c, nil
}

// Decrement subtracts 1 from the row at k inside one transaction, deleting
// it when the count reaches 0. Rows with a non-positive count are left alone.
func (s *SQLStore) Decrement(ctx context.Context, k Key) (*Completion, error) {
	if err := validateKey(k); err != nil {
		return nil, err
	}

	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning decrement: %w", err)
	}
	defer tx.Rollback()

	// The UPDATE takes the row lock first, so a concurrent decrement waits
	// and then sees our result.
	row := tx.QueryRowContext(ctx, s.db.Rebind(
		`UPDATE habit_completions SET count = count - 1, updated_at = ?
		 WHERE user_id = ? AND habit_id = ? AND date = ? AND count > 0
		 RETURNING `+completionColumns),
		store.Timestamp(s.now()), k.UserID, k.HabitID, k.Date)
	c, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decrementing completion: %w", err)
	}

	if c.Count <= 0 {
		if _, err := tx.ExecContext(ctx, s.db.Rebind(
			`DELETE FROM habit_completions WHERE user_id = ? AND habit_id = ? AND date = ?`),
			k.UserID, k.HabitID, k.Date); err != nil {
			return nil, fmt.Errorf("removing emptied completion: %w", err)
		}
		c = nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing decrement: %w", err)
	}
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompletion(sc scanner) (*Completion, error) {
	var c Completion
	var created, updated string
	if err := sc.Scan(&c.ID, &c.UserID, &c.HabitID, &c.Date, &c.Count, &created, &updated); err != nil {
		return nil, err
	}
	c.CreatedAt = store.ParseTimestamp(created)
	c.UpdatedAt = store.ParseTimestamp(updated)
	return &c, nil
}
