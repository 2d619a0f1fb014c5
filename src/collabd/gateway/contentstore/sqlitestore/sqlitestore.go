// Package sqlitestore implements the content-storage gateway on an embedded
// SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"

	"github.com/docsmith/collabd/src/collabd/entity"
	cerr "github.com/docsmith/collabd/src/collabd/internal/errors"
	"github.com/docsmith/collabd/src/collabd/mapper"
	"github.com/docsmith/collabd/src/collabd/model"
	_ "modernc.org/sqlite"
)

// Store is a contentstore.Gateway persisted in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens a draft store at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS draft_sessions (
		file_path TEXT NOT NULL,
		branch_name TEXT NOT NULL,
		content TEXT NOT NULL,
		locked_by TEXT NOT NULL DEFAULT '',
		locked_at INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (file_path, branch_name)
	);

	CREATE INDEX IF NOT EXISTS idx_draft_sessions_branch ON draft_sessions(branch_name);`
	_, err := s.db.Exec(schema)
	return err
}

// Upsert writes the draft row, replacing any existing (file_path, branch_name) row.
func (s *Store) Upsert(ctx context.Context, d entity.DraftSession) error {
	m := mapper.DraftToModel(d)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO draft_sessions (file_path, branch_name, content, locked_by, locked_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path, branch_name) DO UPDATE SET
			content = excluded.content,
			locked_by = excluded.locked_by,
			locked_at = excluded.locked_at,
			updated_at = excluded.updated_at`,
		m.FilePath, m.BranchName, m.Content, m.LockedBy, m.LockedAt, m.UpdatedAt)
	return err
}

// Get returns the draft for a file on a branch.
func (s *Store) Get(ctx context.Context, filePath string, branchName string) (entity.DraftSession, error) {
	var m model.DraftSession
	err := s.db.QueryRowContext(ctx, `
		SELECT file_path, branch_name, content, locked_by, locked_at, updated_at
		FROM draft_sessions WHERE file_path = ? AND branch_name = ?`,
		filePath, branchName,
	).Scan(&m.FilePath, &m.BranchName, &m.Content, &m.LockedBy, &m.LockedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return entity.DraftSession{}, &cerr.DraftNotFoundError{FilePath: filePath, BranchName: branchName}
	}
	if err != nil {
		return entity.DraftSession{}, err
	}
	return mapper.ModelToDraft(m), nil
}

// Query returns all drafts on a branch.
func (s *Store) Query(ctx context.Context, branchName string) ([]entity.DraftSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_path, branch_name, content, locked_by, locked_at, updated_at
		FROM draft_sessions WHERE branch_name = ? ORDER BY file_path`,
		branchName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.DraftSession, 0)
	for rows.Next() {
		var m model.DraftSession
		if err := rows.Scan(&m.FilePath, &m.BranchName, &m.Content, &m.LockedBy, &m.LockedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, mapper.ModelToDraft(m))
	}
	return out, rows.Err()
}

// Delete removes the draft for a file on a branch.
func (s *Store) Delete(ctx context.Context, filePath string, branchName string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM draft_sessions WHERE file_path = ? AND branch_name = ?`,
		filePath, branchName)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
