package kvstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/docsmith/collabd/src/collabd/internal/clock"
	_ "modernc.org/sqlite"
)

// SQLite is a Store persisted in an embedded SQLite database, so a page
// reload resumes lock info and branch selection without a network round-trip.
type SQLite struct {
	db    *sql.DB
	clock clock.Clock
}

// OpenSQLite creates or opens a SQLite-backed Store at the given path.
func OpenSQLite(path string, c clock.Clock) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	s := &SQLite{db: db, clock: c}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv_records (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the value for key, treating expired rows as absent.
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM kv_records WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if expiresAt > 0 && expiresAt < s.clock.Now().Unix() {
		// Expired rows are removed lazily on read.
		_, _ = s.db.ExecContext(ctx, `DELETE FROM kv_records WHERE key = ?`, key)
		return "", false, nil
	}
	return value, true, nil
}

// Set writes value under key with the given ttl.
func (s *SQLite) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.clock.Now().Add(ttl).Unix()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_records (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt)
	return err
}

// Clear removes the record for key.
func (s *SQLite) Clear(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_records WHERE key = ?`, key)
	return err
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
