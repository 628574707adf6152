package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetKV returns the value stored under key. ok is false when the key is absent.
func (db *DB) GetKV(ctx context.Context, key string) (value string, ok bool, err error) {
	err = db.conn.QueryRowContext(ctx,
		db.Rebind(`SELECT value FROM kv WHERE key = ?`), key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return value, true, nil
}

// SetKV upserts a value.
func (db *DB) SetKV(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx, db.Rebind(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, value, Timestamp(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// DeleteKV removes a key. Removing an absent key is not an error.
func (db *DB) DeleteKV(ctx context.Context, key string) error {
	if _, err := db.conn.ExecContext(ctx, db.Rebind(`DELETE FROM kv WHERE key = ?`), key); err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}
