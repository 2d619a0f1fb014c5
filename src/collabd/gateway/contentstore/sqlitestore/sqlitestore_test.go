package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/docsmith/collabd/src/collabd/entity"
	cerr "github.com/docsmith/collabd/src/collabd/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Get(ctx, "guide.md", "main")
	assert.True(t, cerr.IsDraftNotFound(err))

	d := entity.DraftSession{
		FilePath:   "guide.md",
		BranchName: "main",
		Content:    "# Guide",
		LockedBy:   "userA",
		LockedAt:   time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Upsert(ctx, d))

	got, err := s.Get(ctx, "guide.md", "main")
	require.NoError(t, err)
	assert.Equal(t, d, got)

	// Upsert is last-write-wins on the same (path, branch) key.
	d.Content = "# Guide v2"
	d.LockedBy = ""
	d.LockedAt = time.Time{}
	require.NoError(t, s.Upsert(ctx, d))

	got, err = s.Get(ctx, "guide.md", "main")
	require.NoError(t, err)
	assert.Equal(t, "# Guide v2", got.Content)
	assert.False(t, got.IsLocked())
}

func TestQueryScopedToBranch(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Upsert(ctx, entity.DraftSession{FilePath: "a.md", BranchName: "main", Content: "a"}))
	require.NoError(t, s.Upsert(ctx, entity.DraftSession{FilePath: "b.md", BranchName: "main", Content: "b"}))
	require.NoError(t, s.Upsert(ctx, entity.DraftSession{FilePath: "a.md", BranchName: "feature-x", Content: "a-feature"}))

	drafts, err := s.Query(ctx, "main")
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "a.md", drafts[0].FilePath)
	assert.Equal(t, "b.md", drafts[1].FilePath)

	drafts, err = s.Query(ctx, "feature-x")
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "a-feature", drafts[0].Content)

	drafts, err = s.Query(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Upsert(ctx, entity.DraftSession{FilePath: "a.md", BranchName: "main", Content: "a"}))
	require.NoError(t, s.Delete(ctx, "a.md", "main"))

	_, err := s.Get(ctx, "a.md", "main")
	assert.True(t, cerr.IsDraftNotFound(err))

	// Deleting an absent draft is not an error.
	assert.NoError(t, s.Delete(ctx, "a.md", "main"))
}
