// Package vcs defines the outbound gateway to the version-control host.
// The host is authoritative for branches and committed content; drafts only
// reach it through the publish step.
package vcs

import (
	"context"

	"github.com/docsmith/collabd/src/collabd/entity"
)

// CommitFile is one file included in a publish commit.
type CommitFile struct {
	Path    string
	Content string
}

// PullRequest describes a publish: a commit of files to the head branch and
// a pull request against the base branch.
type PullRequest struct {
	BaseBranch string
	HeadBranch string
	Files      []CommitFile
	Title      string
	Body       string
}

// Host is the outbound interface to the version-control host.
type Host interface {
	// ListBranches returns all branches; exactly one carries IsDefault.
	ListBranches(ctx context.Context) ([]entity.Branch, error)
	// CreateBranchRef creates a new branch ref pointing at fromSHA.
	CreateBranchRef(ctx context.Context, name string, fromSHA string) (entity.Branch, error)
	// DeleteBranchRef deletes the branch ref.
	DeleteBranchRef(ctx context.Context, name string) error
	// CreateCommitAndPR commits the files to the head branch and opens a
	// pull request against the base branch, returning the PR URL.
	CreateCommitAndPR(ctx context.Context, pr PullRequest) (string, error)
}

// DefaultBranch returns the default branch from a listing, or false if the
// listing carries none.
func DefaultBranch(branches []entity.Branch) (entity.Branch, bool) {
	for _, b := range branches {
		if b.IsDefault {
			return b, true
		}
	}
	return entity.Branch{}, false
}
