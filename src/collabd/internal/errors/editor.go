package errors

import (
	stderr "errors"
	"fmt"
	"time"
)

// InvalidTransitionError reports a state transition outside the editor's
// transition table. These are expected during UI races and are logged and
// ignored at the transition boundary, never surfaced to the caller.
type InvalidTransitionError struct {
	From string
	To   string
}

// Error is an implementation of the error interface.
func (i *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid editor state transition %s -> %s", i.From, i.To)
}

// OperationTimeoutError reports that a queued editor operation exceeded its
// hard deadline and forced a machine reset.
type OperationTimeoutError struct {
	Operation string
	Timeout   time.Duration
}

// Error is an implementation of the error interface.
func (o *OperationTimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", o.Operation, o.Timeout)
}

// IsTimeout reports whether OperationTimeoutError is part of the error chain.
func IsTimeout(e error) bool {
	var to *OperationTimeoutError
	return stderr.As(e, &to)
}

// OperationAbortedError reports that a queued operation was rejected before
// it ran, either by a force reset or an explicit queue clear.
type OperationAbortedError struct {
	Operation string
	Reason    string
}

// Error is an implementation of the error interface.
func (o *OperationAbortedError) Error() string {
	return fmt.Sprintf("operation %q aborted: %s", o.Operation, o.Reason)
}
