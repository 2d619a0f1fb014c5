package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// NoUserError reports that no user identity is available for the request.
	NoUserError = New("user identity is required")
	// NoBranchSelectedError reports that no current branch has been selected.
	NoBranchSelectedError = New("no branch selected")
)

// IsBadRequest reports whether the error is a bad request from the caller.
func IsBadRequest(e error) bool {
	return stderr.Is(e, NoUserError) || stderr.Is(e, NoBranchSelectedError)
}
