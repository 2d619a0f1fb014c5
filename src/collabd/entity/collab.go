// Package entity contains the domain types for the collabd service.
package entity

import (
	"time"
)

type keyType string

// UserContextKey indicates the key to be used to identify the acting user in the context.
const UserContextKey keyType = "UserID"

// DraftSession is the editable state of one file on one branch. At most one
// non-empty LockedBy exists per (FilePath, BranchName) pair at any time; the
// lock controller enforces this, the storage gateway does last-write-wins.
type DraftSession struct {
	FilePath   string    `json:"filePath" zap:"filePath"`
	BranchName string    `json:"branchName" zap:"branchName"`
	Content    string    `json:"content" zap:"-"`
	LockedBy   string    `json:"lockedBy" zap:"lockedBy"`
	LockedAt   time.Time `json:"lockedAt" zap:"lockedAt"`
	UpdatedAt  time.Time `json:"updatedAt" zap:"updatedAt"`
}

// IsLocked returns true if the draft carries an active lock claim.
func (d DraftSession) IsLocked() bool {
	return d.LockedBy != ""
}

// LockedByOther returns true if the draft is locked by a user other than userID.
func (d DraftSession) LockedByOther(userID string) bool {
	return d.LockedBy != "" && d.LockedBy != userID
}

// TypingSession represents what a user is currently typing, not yet saved.
// It is never read as a source of truth for content; the next draft save
// always supersedes it.
type TypingSession struct {
	FilePath       string    `json:"filePath" zap:"filePath"`
	UserID         string    `json:"userId" zap:"userId"`
	Content        string    `json:"content" zap:"-"`
	CursorPosition int       `json:"cursorPosition" zap:"cursorPosition"`
	UpdatedAt      time.Time `json:"updatedAt" zap:"updatedAt"`
}

// LockInfo is the durable side-channel record mirroring the authoritative
// lock claim. It is advisory; the authoritative store wins on conflict.
type LockInfo struct {
	FilePath   string    `json:"filePath"`
	BranchName string    `json:"branchName"`
	UserID     string    `json:"userId"`
	AcquiredAt time.Time `json:"acquiredAt"`
}

// Branch is a ref on the version-control host.
type Branch struct {
	Name      string `json:"name" zap:"name"`
	SHA       string `json:"sha" zap:"sha"`
	IsDefault bool   `json:"isDefault" zap:"isDefault"`
}
