package branch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docsmith/collabd/src/collabd/entity"
	"github.com/docsmith/collabd/src/collabd/gateway/contentstore/memstore"
	"github.com/docsmith/collabd/src/collabd/gateway/vcs"
	"github.com/docsmith/collabd/src/collabd/gateway/vcs/vcsmock"
	"github.com/docsmith/collabd/src/collabd/internal/clock"
	"github.com/docsmith/collabd/src/collabd/internal/identity"
	"github.com/docsmith/collabd/src/collabd/internal/kvstore"
	"github.com/docsmith/collabd/src/collabd/repository/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var _branches = []entity.Branch{
	{Name: "main", SHA: "aaa", IsDefault: true},
	{Name: "feature-x", SHA: "bbb"},
}

type testEnv struct {
	ctrl   Controller
	host   *vcsmock.MockHost
	store  *memstore.Store
	drafts draft.Repository
	side   kvstore.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mockCtrl := gomock.NewController(t)
	host := vcsmock.NewMockHost(mockCtrl)
	store := memstore.New()
	drafts := draft.New(draft.Params{Stats: tally.NewTestScope("", nil)})
	side := kvstore.NewMemory(clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	return &testEnv{
		ctrl:   newController(t, host, store, drafts, side),
		host:   host,
		store:  store,
		drafts: drafts,
		side:   side,
	}
}

func newController(t *testing.T, host vcs.Host, store *memstore.Store, drafts draft.Repository, side kvstore.Store) Controller {
	t.Helper()
	cfg, err := config.NewStaticProvider(map[string]interface{}{
		_nameKey: map[string]interface{}{"initial": "main"},
	})
	require.NoError(t, err)
	return New(Params{
		Host:     host,
		Store:    store,
		Drafts:   drafts,
		Side:     side,
		Identity: identity.NewStatic("userA"),
		Clock:    clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		Logger:   zap.NewNop().Sugar(),
		Stats:    tally.NewTestScope("", nil),
		Config:   cfg,
	})
}

func TestFetchBranchesResetsPlaceholder(t *testing.T) {
	env := newTestEnv(t)
	env.host.EXPECT().ListBranches(gomock.Any()).Return([]entity.Branch{
		{Name: "trunk", SHA: "aaa", IsDefault: true},
		{Name: "feature-x", SHA: "bbb"},
	}, nil)

	branches, err := env.ctrl.FetchBranches(context.Background())
	require.NoError(t, err)
	assert.Len(t, branches, 2)

	// The initial "main" selection was a placeholder; it resets to the
	// remote default.
	assert.Equal(t, "trunk", env.ctrl.CurrentBranch())
	assert.Nil(t, env.ctrl.LastError())
}

func TestFetchBranchesFailureLeavesCurrent(t *testing.T) {
	env := newTestEnv(t)
	env.host.EXPECT().ListBranches(gomock.Any()).Return(nil, errors.New("host unreachable"))

	_, err := env.ctrl.FetchBranches(context.Background())
	require.Error(t, err)
	assert.Equal(t, "main", env.ctrl.CurrentBranch())
	assert.Error(t, env.ctrl.LastError())
}

func TestSwitchBranchMigratesDrafts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.host.EXPECT().ListBranches(gomock.Any()).Return(_branches, nil)
	_, err := env.ctrl.FetchBranches(ctx)
	require.NoError(t, err)

	env.drafts.SetContent(ctx, "main", "a.md", "# A")
	env.drafts.SetContent(ctx, "main", "b.md", "# B")

	require.NoError(t, env.ctrl.SwitchBranch(ctx, "feature-x"))
	assert.Equal(t, "feature-x", env.ctrl.CurrentBranch())

	// Every prior draft has an unlocked copy with identical content under
	// the new namespace, and the old copies are retained.
	migrated := env.drafts.BranchDrafts(ctx, "feature-x")
	assert.Equal(t, map[string]string{"a.md": "# A", "b.md": "# B"}, migrated)
	assert.Len(t, env.drafts.BranchDrafts(ctx, "main"), 2)

	for _, path := range []string{"a.md", "b.md"} {
		d, err := env.store.Get(ctx, path, "feature-x")
		require.NoError(t, err)
		assert.Empty(t, d.LockedBy)
	}
}

func TestSwitchBranchMigratesRemoteLockedDrafts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.host.EXPECT().ListBranches(gomock.Any()).Return(_branches, nil)
	_, err := env.ctrl.FetchBranches(ctx)
	require.NoError(t, err)

	// A draft locked by this user exists remotely but not in local memory.
	require.NoError(t, env.store.Upsert(ctx, entity.DraftSession{
		FilePath:   "remote.md",
		BranchName: "main",
		Content:    "# Remote",
		LockedBy:   "userA",
	}))
	// Another user's draft must not migrate.
	require.NoError(t, env.store.Upsert(ctx, entity.DraftSession{
		FilePath:   "theirs.md",
		BranchName: "main",
		Content:    "# Theirs",
		LockedBy:   "userB",
	}))

	require.NoError(t, env.ctrl.SwitchBranch(ctx, "feature-x"))

	d, err := env.store.Get(ctx, "remote.md", "feature-x")
	require.NoError(t, err)
	assert.Equal(t, "# Remote", d.Content)
	assert.Empty(t, d.LockedBy)

	_, err = env.store.Get(ctx, "theirs.md", "feature-x")
	assert.Error(t, err)
}

func TestSwitchBranchUnknownBranch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.host.EXPECT().ListBranches(gomock.Any()).Return(_branches, nil)
	_, err := env.ctrl.FetchBranches(ctx)
	require.NoError(t, err)

	err = env.ctrl.SwitchBranch(ctx, "nope")
	require.Error(t, err)
	assert.Equal(t, "main", env.ctrl.CurrentBranch())
}

func TestCreateBranchMigratesAndSwitches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.host.EXPECT().ListBranches(gomock.Any()).Return(_branches, nil)
	_, err := env.ctrl.FetchBranches(ctx)
	require.NoError(t, err)

	env.drafts.SetContent(ctx, "main", "a.md", "# A")
	env.host.EXPECT().CreateBranchRef(gomock.Any(), "feature-y", "aaa").
		Return(entity.Branch{Name: "feature-y", SHA: "aaa"}, nil)

	require.NoError(t, env.ctrl.CreateBranch(ctx, "feature-y", ""))
	assert.Equal(t, "feature-y", env.ctrl.CurrentBranch())
	assert.Equal(t, map[string]string{"a.md": "# A"}, env.drafts.BranchDrafts(ctx, "feature-y"))

	names := make([]string, 0)
	for _, b := range env.ctrl.Branches() {
		names = append(names, b.Name)
	}
	assert.Contains(t, names, "feature-y")
}

func TestCreateBranchFailureLeavesCurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.host.EXPECT().ListBranches(gomock.Any()).Return(_branches, nil)
	_, err := env.ctrl.FetchBranches(ctx)
	require.NoError(t, err)

	env.host.EXPECT().CreateBranchRef(gomock.Any(), "feature-y", "aaa").
		Return(entity.Branch{}, errors.New("ref exists"))

	require.Error(t, env.ctrl.CreateBranch(ctx, "feature-y", ""))
	assert.Equal(t, "main", env.ctrl.CurrentBranch())
}

func TestDeleteDefaultBranchRejectedWithoutNetwork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.host.EXPECT().ListBranches(gomock.Any()).Return(_branches, nil)
	_, err := env.ctrl.FetchBranches(ctx)
	require.NoError(t, err)

	// No DeleteBranchRef expectation: the rejection must not hit the host.
	require.Error(t, env.ctrl.DeleteBranch(ctx, "main"))
}

func TestDeleteCurrentBranchSwitchesToDefaultFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.host.EXPECT().ListBranches(gomock.Any()).Return(_branches, nil)
	_, err := env.ctrl.FetchBranches(ctx)
	require.NoError(t, err)
	require.NoError(t, env.ctrl.SwitchBranch(ctx, "feature-x"))

	env.host.EXPECT().DeleteBranchRef(gomock.Any(), "feature-x").Return(nil)
	env.drafts.SetContent(ctx, "feature-x", "a.md", "# A")

	require.NoError(t, env.ctrl.DeleteBranch(ctx, "feature-x"))
	assert.Equal(t, "main", env.ctrl.CurrentBranch())
	assert.Empty(t, env.drafts.BranchDrafts(ctx, "feature-x"))

	names := make([]string, 0)
	for _, b := range env.ctrl.Branches() {
		names = append(names, b.Name)
	}
	assert.NotContains(t, names, "feature-x")
}

func TestPublishCreatesPRAndClearsDrafts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.host.EXPECT().ListBranches(gomock.Any()).Return(_branches, nil)
	_, err := env.ctrl.FetchBranches(ctx)
	require.NoError(t, err)
	require.NoError(t, env.ctrl.SwitchBranch(ctx, "feature-x"))

	env.drafts.SetContent(ctx, "feature-x", "b.md", "# B")
	env.drafts.SetContent(ctx, "feature-x", "a.md", "# A")

	var captured vcs.PullRequest
	env.host.EXPECT().CreateCommitAndPR(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, pr vcs.PullRequest) (string, error) {
			captured = pr
			return "https://github.com/docsmith/docs/pull/7", nil
		})

	url, err := env.ctrl.Publish(ctx, "Update docs", "details")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/docsmith/docs/pull/7", url)

	assert.Equal(t, "main", captured.BaseBranch)
	assert.Equal(t, "feature-x", captured.HeadBranch)
	require.Len(t, captured.Files, 2)
	assert.Equal(t, "a.md", captured.Files[0].Path)
	assert.Equal(t, "b.md", captured.Files[1].Path)

	assert.Empty(t, env.drafts.BranchDrafts(ctx, "feature-x"))
	_, err = env.store.Get(ctx, "a.md", "feature-x")
	assert.Error(t, err)
}

func TestPublishWithoutDrafts(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.ctrl.Publish(context.Background(), "Update docs", "")
	assert.Error(t, err)
}

func TestCurrentBranchPersistsAcrossRestart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.host.EXPECT().ListBranches(gomock.Any()).Return(_branches, nil)
	_, err := env.ctrl.FetchBranches(ctx)
	require.NoError(t, err)
	require.NoError(t, env.ctrl.SwitchBranch(ctx, "feature-x"))

	// A fresh controller over the same side-channel resumes the selection.
	resumed := newController(t, env.host, env.store, env.drafts, env.side)
	assert.Equal(t, "feature-x", resumed.CurrentBranch())
}
