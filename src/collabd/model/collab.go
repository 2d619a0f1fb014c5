// Package model holds storage-shaped records for the repository, gateway,
// and side-channel layers. Entities are converted to and from these shapes
// by the mapper package.
package model

// DraftSession is the storage-layer row for a draft, keyed uniquely by
// (FilePath, BranchName). Timestamps are unix seconds; zero means unset.
type DraftSession struct {
	FilePath   string
	BranchName string
	Content    string
	LockedBy   string
	LockedAt   int64
	UpdatedAt  int64
}

// Record version numbers for the side-channel payloads. Bump when a payload
// shape changes; decoders treat unknown versions as absent.
const (
	LockInfoVersion      = 1
	LockOperationVersion = 1
	CurrentBranchVersion = 1
)

// LockInfoRecord is the versioned side-channel payload for a held lock.
type LockInfoRecord struct {
	V          int    `json:"v"`
	FilePath   string `json:"filePath"`
	BranchName string `json:"branchName"`
	UserID     string `json:"userId"`
	AcquiredAt int64  `json:"acquiredAt"`
}

// Lock operation type tags used on the wire.
const (
	LockOpAcquiring = "acquiring"
	LockOpReleasing = "releasing"
	LockOpSwitching = "switching"
)

// LockOperationRecord is the versioned side-channel payload for an
// in-progress lock transition.
type LockOperationRecord struct {
	V          int    `json:"v"`
	Type       string `json:"type"`
	FromFile   string `json:"fromFile,omitempty"`
	ToFile     string `json:"toFile,omitempty"`
	BranchName string `json:"branchName"`
	Timestamp  int64  `json:"timestamp"`
}

// CurrentBranchRecord is the versioned side-channel payload for the
// selected branch, so a reload resumes the same branch.
type CurrentBranchRecord struct {
	V    int    `json:"v"`
	Name string `json:"name"`
}
