// Package memstore implements the content-storage gateway in process
// memory, for tests and single-process deployments.
package memstore

import (
	"context"
	"sync"

	"github.com/docsmith/collabd/src/collabd/entity"
	cerr "github.com/docsmith/collabd/src/collabd/internal/errors"
)

type key struct {
	filePath   string
	branchName string
}

// Store is an in-memory contentstore.Gateway with last-write-wins upsert.
type Store struct {
	mu     sync.Mutex
	drafts map[key]entity.DraftSession
}

// New creates an empty in-memory draft store.
func New() *Store {
	return &Store{drafts: make(map[key]entity.DraftSession)}
}

// Upsert writes the draft, replacing any existing entry for the same pair.
func (s *Store) Upsert(ctx context.Context, d entity.DraftSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[key{d.FilePath, d.BranchName}] = d
	return nil
}

// Get returns the draft for a file on a branch.
func (s *Store) Get(ctx context.Context, filePath string, branchName string) (entity.DraftSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[key{filePath, branchName}]
	if !ok {
		return entity.DraftSession{}, &cerr.DraftNotFoundError{FilePath: filePath, BranchName: branchName}
	}
	return d, nil
}

// Query returns all drafts on a branch.
func (s *Store) Query(ctx context.Context, branchName string) ([]entity.DraftSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.DraftSession, 0)
	for k, d := range s.drafts {
		if k.branchName == branchName {
			out = append(out, d)
		}
	}
	return out, nil
}

// Delete removes the draft for a file on a branch.
func (s *Store) Delete(ctx context.Context, filePath string, branchName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, key{filePath, branchName})
	return nil
}
