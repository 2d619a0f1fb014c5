package errors

import (
	stderr "errors"
	"fmt"
)

// DraftNotFoundError is a service domain error for a missing draft session.
type DraftNotFoundError struct {
	FilePath   string
	BranchName string
}

// Error is an implementation of the error interface.
func (n *DraftNotFoundError) Error() string {
	return fmt.Sprintf("no draft for file %q on branch %q", n.FilePath, n.BranchName)
}

// IsDraftNotFound reports whether DraftNotFoundError is part of the error chain.
func IsDraftNotFound(e error) bool {
	var nf *DraftNotFoundError
	return stderr.As(e, &nf)
}

// BranchNotFoundError is a service domain error for a missing branch ref.
type BranchNotFoundError struct {
	Name string
}

// Error is an implementation of the error interface.
func (n *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %q not found", n.Name)
}
