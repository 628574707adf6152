package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/rnwolfe/tally/internal/config"
)

// Driver identifies the SQL dialect behind a DB.
type Driver string

const (
	SQLite   Driver = config.DriverSQLite
	Postgres Driver = config.DriverPostgres
)

// ErrInvalidDSN is returned for an unusable postgres connection string.
var ErrInvalidDSN = errors.New("invalid PostgreSQL connection string")

// DB wraps the SQL connection and the dialect it speaks.
type DB struct {
	conn   *sql.DB
	driver Driver
}

// Open opens (or creates) the tally database selected by cfg.
func Open(cfg *config.Config) (*DB, error) {
	switch cfg.Store.Driver {
	case "", config.DriverSQLite:
		path := cfg.Store.DSN
		if path == "" {
			paths := config.GetPaths()
			if err := paths.EnsureDirs(); err != nil {
				return nil, fmt.Errorf("creating data dirs: %w", err)
			}
			path = paths.DBFile
		}
		return OpenSQLite(path)
	case config.DriverPostgres:
		return OpenPostgres(cfg.Store.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// OpenSQLite opens a SQLite database file and runs migrations. The special
// path ":memory:" yields a private in-memory database.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is its own database.
		conn.SetMaxOpenConns(1)
	}

	db := &DB{conn: conn, driver: SQLite}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// OpenPostgres connects to PostgreSQL and runs migrations.
func OpenPostgres(dsn string) (*DB, error) {
	connector, err := ValidateDSN(dsn)
	if err != nil {
		return nil, err
	}

	conn := sql.OpenDB(connector)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	db := &DB{conn: conn, driver: Postgres}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// ValidateDSN checks that dsn parses as a PostgreSQL URI or key=value string.
func ValidateDSN(dsn string) (*pq.Connector, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidDSN)
	}
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDSN, err)
	}
	return connector, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the raw sql.DB for direct queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver returns the dialect of the connection.
func (db *DB) Driver() Driver {
	return db.driver
}

// Rebind rewrites ? placeholders into the connection's dialect. Queries in
// tally are written with ? and never contain a literal question mark.
func (db *DB) Rebind(query string) string {
	if db.driver != Postgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Placeholders returns "?, ?, ?" with n markers, for IN lists.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// timestampLayout is fixed-width so stored timestamps sort as strings.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Timestamp formats t the way every created_at/updated_at column stores it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp is the inverse of Timestamp. Unparseable values yield the
// zero time.
func ParseTimestamp(s string) time.Time {
	t, _ := time.Parse(timestampLayout, s)
	return t
}

// migrate runs all schema migrations. Every statement is idempotent and
// valid in both SQLite and PostgreSQL.
func (db *DB) migrate() error {
	migrations := []string{
		// Key-value store for misc state (active template per user).
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS templates (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_templates_user ON templates(user_id)`,
		`CREATE TABLE IF NOT EXISTS habits (
			id TEXT PRIMARY KEY,
			template_id TEXT NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
			icon TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			type TEXT NOT NULL DEFAULT 'once_per_day'
				CHECK (type IN ('once_per_day', 'repeatable')),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_habits_template ON habits(template_id)`,
		// The ledger. count may touch 0 only inside a decrement transaction,
		// which deletes the row before committing.
		`CREATE TABLE IF NOT EXISTS habit_completions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			date TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 1 CHECK (count >= 0),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (user_id, habit_id, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_user_date ON habit_completions(user_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_habit_date ON habit_completions(habit_id, date)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
