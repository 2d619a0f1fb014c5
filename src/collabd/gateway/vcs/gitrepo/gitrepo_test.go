package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/docsmith/collabd/src/collabd/gateway/vcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a repository with one commit on the default branch
// and returns its path and head SHA.
func initTestRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# docs"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir, hash.String()
}

func TestListBranches(t *testing.T) {
	dir, sha := initTestRepo(t)
	r, err := Open(dir, "collabd", "collabd@example.com")
	require.NoError(t, err)

	branches, err := r.ListBranches(context.Background())
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, "master", branches[0].Name)
	assert.Equal(t, sha, branches[0].SHA)
	assert.True(t, branches[0].IsDefault)
}

func TestCreateAndDeleteBranchRef(t *testing.T) {
	ctx := context.Background()
	dir, sha := initTestRepo(t)
	r, err := Open(dir, "collabd", "collabd@example.com")
	require.NoError(t, err)

	created, err := r.CreateBranchRef(ctx, "feature-x", sha)
	require.NoError(t, err)
	assert.Equal(t, "feature-x", created.Name)
	assert.Equal(t, sha, created.SHA)

	branches, err := r.ListBranches(ctx)
	require.NoError(t, err)
	assert.Len(t, branches, 2)

	require.NoError(t, r.DeleteBranchRef(ctx, "feature-x"))
	branches, err = r.ListBranches(ctx)
	require.NoError(t, err)
	assert.Len(t, branches, 1)

	// Deleting a missing ref reports the branch name.
	err = r.DeleteBranchRef(ctx, "feature-x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature-x")
}

func TestCreateCommitAndPR(t *testing.T) {
	ctx := context.Background()
	dir, sha := initTestRepo(t)
	r, err := Open(dir, "collabd", "collabd@example.com")
	require.NoError(t, err)

	_, err = r.CreateBranchRef(ctx, "feature-x", sha)
	require.NoError(t, err)

	hash, err := r.CreateCommitAndPR(ctx, vcs.PullRequest{
		BaseBranch: "master",
		HeadBranch: "feature-x",
		Files: []vcs.CommitFile{
			{Path: "docs/guide.md", Content: "# Guide"},
			{Path: "docs/api.md", Content: "# API"},
		},
		Title: "Update docs",
		Body:  "Adds the guide and API pages.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	data, err := os.ReadFile(filepath.Join(dir, "docs", "guide.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Guide", string(data))

	// The feature branch moved; master did not.
	branches, err := r.ListBranches(ctx)
	require.NoError(t, err)
	for _, b := range branches {
		if b.Name == "feature-x" {
			assert.Equal(t, hash, b.SHA)
		}
		if b.Name == "master" {
			assert.Equal(t, sha, b.SHA)
		}
	}
}

func TestCreateCommitAndPRRequiresFiles(t *testing.T) {
	dir, _ := initTestRepo(t)
	r, err := Open(dir, "collabd", "collabd@example.com")
	require.NoError(t, err)

	_, err = r.CreateCommitAndPR(context.Background(), vcs.PullRequest{HeadBranch: "master"})
	assert.Error(t, err)
}
