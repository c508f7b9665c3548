// Package sqlite implements the user repository on SQLite.
//
// WHY SQLITE AS THE DEFAULT?
// SQLite is an embedded database — it lives inside the Go binary as a
// single file, with nothing to install or operate. That makes it the right
// default for development, tests (":memory:") and single-server
// deployments; production installs that already run MongoDB use the
// mongodb driver instead, selected via STORE_DRIVER.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation
// of the SQLite sources — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: the sqlite package's init() registers itself with
	// database/sql as a driver named "sqlite".
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements
// repository.UserRepository.
type DB struct {
	conn *sql.DB
}

// New creates a SQLite-backed store and runs migrations.
//
// dbPath examples:
//   - "data/store.db" → file-based database (persistent)
//   - ":memory:"      → in-memory database (great for tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// database/sql is a connection POOL. SQLite serializes writers anyway,
	// and a single connection keeps the PRAGMAs below in effect for every
	// query and makes ":memory:" databases behave (each new pool
	// connection would otherwise open its own empty in-memory database).
	conn.SetMaxOpenConns(1)

	// Ping forces a real connection now, so a bad path or permissions
	// problem surfaces at startup instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in flight, which a
	// web server doing registrations and gate lookups needs.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Callers should defer this
// right after New so the WAL is flushed and the file lock released even on
// failure paths.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the users table.
//
// The UNIQUE index on email is the load-bearing constraint of the whole
// subsystem: two concurrent registrations with the same normalized email
// race between the advisory existence check and the insert, and this index
// is what guarantees exactly one of them wins. Emails are stored lowercase,
// so a plain UNIQUE index gives case-insensitive uniqueness.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			email           TEXT NOT NULL,
			password_hash   TEXT NOT NULL DEFAULT '',
			is_google_user  INTEGER NOT NULL DEFAULT 0,
			profile_picture TEXT NOT NULL DEFAULT '',
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_login_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	return nil
}
