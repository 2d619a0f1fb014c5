// Package factory holds user-defined factories for values used across the
// service and its tests.
package factory

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/docsmith/collabd/src/collabd/entity"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// DraftSession is a factory for a locked draft on a branch.
func DraftSession(path string, branch string, userID string) entity.DraftSession {
	now := time.Now().UTC().Truncate(time.Second)
	return entity.DraftSession{
		FilePath:   path,
		BranchName: branch,
		Content:    "# " + path,
		LockedBy:   userID,
		LockedAt:   now,
		UpdatedAt:  now,
	}
}

// TypingSession is a factory for an in-progress typing session.
func TypingSession(path string, userID string, content string) entity.TypingSession {
	return entity.TypingSession{
		FilePath:       path,
		UserID:         userID,
		Content:        content,
		CursorPosition: len(content),
		UpdatedAt:      time.Now().UTC(),
	}
}
