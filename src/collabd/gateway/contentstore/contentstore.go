// Package contentstore defines the outbound gateway to the content-storage
// collaborator, which persists draft sessions keyed uniquely by
// (filePath, branchName) with last-write-wins upsert semantics.
package contentstore

import (
	"context"

	"github.com/docsmith/collabd/src/collabd/entity"
)

// Gateway is the outbound interface to the content-storage collaborator.
type Gateway interface {
	// Upsert writes the draft, replacing any existing row for the same
	// (filePath, branchName) pair.
	Upsert(ctx context.Context, d entity.DraftSession) error
	// Get returns the draft for a file on a branch. Returns
	// errors.DraftNotFoundError when absent.
	Get(ctx context.Context, filePath string, branchName string) (entity.DraftSession, error)
	// Query returns all drafts on a branch.
	Query(ctx context.Context, branchName string) ([]entity.DraftSession, error)
	// Delete removes the draft for a file on a branch. Deleting an absent
	// draft is not an error.
	Delete(ctx context.Context, filePath string, branchName string) error
}
