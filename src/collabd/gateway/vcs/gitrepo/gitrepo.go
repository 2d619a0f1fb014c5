// Package gitrepo implements the vcs gateway against a local git
// repository, used in the local environment where no hosted API is
// available. Publishing commits directly to the head branch; there is no
// pull-request surface locally, so the commit hash stands in for the PR URL.
package gitrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/docsmith/collabd/src/collabd/entity"
	"github.com/docsmith/collabd/src/collabd/gateway/vcs"
	cerr "github.com/docsmith/collabd/src/collabd/internal/errors"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a vcs.Host backed by a local git repository.
type Repo struct {
	repo *git.Repository
	// Commit author identity.
	authorName  string
	authorEmail string
}

// Open opens the git repository at the given path.
func Open(path string, authorName string, authorEmail string) (*Repo, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening git repository: %w", err)
	}
	return &Repo{repo: repo, authorName: authorName, authorEmail: authorEmail}, nil
}

// ListBranches returns all local branches, flagging the branch HEAD points at.
func (r *Repo) ListBranches(ctx context.Context) ([]entity.Branch, error) {
	head, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	defaultName := head.Target().Short()

	iter, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}
	defer iter.Close()

	branches := make([]entity.Branch, 0)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		branches = append(branches, entity.Branch{
			Name:      ref.Name().Short(),
			SHA:       ref.Hash().String(),
			IsDefault: ref.Name().Short() == defaultName,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return branches, nil
}

// CreateBranchRef creates refs/heads/<name> pointing at fromSHA.
func (r *Repo) CreateBranchRef(ctx context.Context, name string, fromSHA string) (entity.Branch, error) {
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), plumbing.NewHash(fromSHA))
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return entity.Branch{}, fmt.Errorf("creating branch %q: %w", name, err)
	}
	return entity.Branch{Name: name, SHA: fromSHA}, nil
}

// DeleteBranchRef deletes refs/heads/<name>.
func (r *Repo) DeleteBranchRef(ctx context.Context, name string) error {
	refName := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(refName, false); err != nil {
		return &cerr.BranchNotFoundError{Name: name}
	}
	if err := r.repo.Storer.RemoveReference(refName); err != nil {
		return fmt.Errorf("deleting branch %q: %w", name, err)
	}
	return nil
}

// CreateCommitAndPR checks out the head branch, writes the files, and
// commits them. The returned string is the commit hash.
func (r *Repo) CreateCommitAndPR(ctx context.Context, pr vcs.PullRequest) (string, error) {
	if len(pr.Files) == 0 {
		return "", cerr.New("nothing to publish")
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	err = wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(pr.HeadBranch)})
	if err != nil {
		return "", fmt.Errorf("checking out %q: %w", pr.HeadBranch, err)
	}

	for _, f := range pr.Files {
		if err := util.WriteFile(wt.Filesystem, f.Path, []byte(f.Content), 0o644); err != nil {
			return "", fmt.Errorf("writing %q: %w", f.Path, err)
		}
		if _, err := wt.Add(f.Path); err != nil {
			return "", fmt.Errorf("staging %q: %w", f.Path, err)
		}
	}

	message := pr.Title
	if pr.Body != "" {
		message += "\n\n" + pr.Body
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  r.authorName,
			Email: r.authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	return hash.String(), nil
}
