package errors

import (
	stderr "errors"
	"fmt"
)

// LockHeldError is a service domain error for a lock held by another user.
// Callers must surface the holder rather than silently steal the lock.
type LockHeldError struct {
	FilePath   string
	BranchName string
	HeldBy     string
}

// Error is an implementation of the error interface.
func (l *LockHeldError) Error() string {
	return fmt.Sprintf("file %q on branch %q is locked by %q", l.FilePath, l.BranchName, l.HeldBy)
}

// LockHolder returns the holding user and true if LockHeldError is part of
// the error chain.
func LockHolder(e error) (_ string, ok bool) {
	var lh *LockHeldError
	if !stderr.As(e, &lh) {
		return "", false
	}
	return lh.HeldBy, true
}
