package entity

import "time"

// LockOperation marks an in-progress lock transition so an interrupted
// client can detect and clean up a half-finished acquire/release/switch on
// next load. Each kind carries its own payload; callers dispatch with an
// exhaustive type switch.
type LockOperation interface {
	isLockOperation()
	// StartedAt reports when the transition began.
	StartedAt() time.Time
}

// LockAcquiring records an acquire in progress.
type LockAcquiring struct {
	FilePath   string
	BranchName string
	Timestamp  time.Time
}

// LockReleasing records a release in progress.
type LockReleasing struct {
	FilePath   string
	BranchName string
	Timestamp  time.Time
}

// LockSwitching records a release of one file followed by an acquire of another.
type LockSwitching struct {
	FromFile   string
	ToFile     string
	BranchName string
	Timestamp  time.Time
}

func (LockAcquiring) isLockOperation() {}
func (LockReleasing) isLockOperation() {}
func (LockSwitching) isLockOperation() {}

// StartedAt implements LockOperation.
func (o LockAcquiring) StartedAt() time.Time { return o.Timestamp }

// StartedAt implements LockOperation.
func (o LockReleasing) StartedAt() time.Time { return o.Timestamp }

// StartedAt implements LockOperation.
func (o LockSwitching) StartedAt() time.Time { return o.Timestamp }
