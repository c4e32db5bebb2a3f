// Package state persists client session state (filters, selection,
// table preferences) across runs in a small SQLite key-value store.
package state

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Blob keys. These predate this service (they were browser localStorage
// keys, "postverdad" spelling included) and are kept verbatim so migrated
// state stays recognizable.
const (
	KeySession  = "postverdad-articles"
	KeyPageSize = "postverdad-pageSize-v1"
	KeyColumns  = "postverdad-cols-v1"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// DB wraps a sql.DB with blob-store operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("state: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Put upserts a blob under key.
func (db *DB) Put(key string, value []byte) error {
	_, err := db.conn.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at
	`, key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("state: put %q: %w", key, err)
	}
	return nil
}

// Get returns the blob stored under key, with ok=false when absent.
func (db *DB) Get(key string) ([]byte, bool, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("state: get %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// Delete removes the blob under key. Absent keys are fine.
func (db *DB) Delete(key string) error {
	if _, err := db.conn.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("state: delete %q: %w", key, err)
	}
	return nil
}
