package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/docsmith/collabd/src/collabd/entity"
	"github.com/docsmith/collabd/src/collabd/gateway/contentstore/contentstoremock"
	"github.com/docsmith/collabd/src/collabd/repository/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newTestController(t *testing.T, store *contentstoremock.MockGateway, debounceMs int) Controller {
	t.Helper()
	cfg, err := config.NewStaticProvider(map[string]interface{}{
		_nameKey: map[string]interface{}{"debounceMs": debounceMs},
	})
	require.NoError(t, err)
	return New(Params{
		Store:  store,
		Logger: zap.NewNop().Sugar(),
		Stats:  tally.NewTestScope("", nil),
		Config: cfg,
	})
}

func TestSavePersistsDraft(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := contentstoremock.NewMockGateway(ctrl)

	var saved entity.DraftSession
	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, d entity.DraftSession) error {
			saved = d
			return nil
		})

	c := newTestController(t, store, 20)
	assert.True(t, c.Save(context.Background(), "guide.md", "hello", "u1", "main"))
	assert.Equal(t, "guide.md", saved.FilePath)
	assert.Equal(t, "main", saved.BranchName)
	assert.Equal(t, "u1", saved.LockedBy)
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestDebounceCoalescesToLastContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := contentstoremock.NewMockGateway(ctrl)

	var mu sync.Mutex
	var saves []entity.DraftSession
	done := make(chan struct{})
	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, d entity.DraftSession) error {
			mu.Lock()
			saves = append(saves, d)
			mu.Unlock()
			close(done)
			return nil
		})

	c := newTestController(t, store, 30)
	ctx := context.Background()
	c.ScheduleAutoSave(ctx, "x.md", "hello", "u1", "main")
	c.ScheduleAutoSave(ctx, "x.md", "hello world", "u1", "main")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced save never fired")
	}
	// Give a superseded timer a chance to misfire before asserting.
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, saves, 1)
	assert.Equal(t, "hello world", saves[0].Content)
}

func TestSaveSkipsWhenInflight(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := contentstoremock.NewMockGateway(ctrl)

	entered := make(chan struct{})
	release := make(chan struct{})
	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ entity.DraftSession) error {
			close(entered)
			<-release
			return nil
		})

	c := newTestController(t, store, 20)
	first := make(chan bool)
	go func() {
		first <- c.Save(context.Background(), "x.md", "v1", "u1", "main")
	}()
	<-entered

	// Second save while the first is in flight is dropped, not queued.
	assert.False(t, c.Save(context.Background(), "x.md", "v2", "u1", "main"))

	close(release)
	assert.True(t, <-first)
}

func TestCancelAbortsInflightSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := contentstoremock.NewMockGateway(ctrl)

	repo := draft.New(draft.Params{Stats: tally.NewTestScope("", nil)})
	repo.SetContent(context.Background(), "main", "x.md", "original")

	entered := make(chan struct{})
	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ entity.DraftSession) error {
			close(entered)
			<-ctx.Done()
			return ctx.Err()
		})

	c := newTestController(t, store, 20)
	errs := make(chan error, 1)
	c.SetOnSaveError(func(err error) { errs <- err })

	result := make(chan bool)
	go func() {
		result <- c.Save(context.Background(), "x.md", "updated", "u1", "main")
	}()
	<-entered
	c.CancelAutoSave()

	assert.False(t, <-result)

	// Abort is silent and leaves the local draft untouched.
	select {
	case err := <-errs:
		t.Fatalf("aborted save reported an error: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	content, ok := repo.GetContent(context.Background(), "main", "x.md")
	require.True(t, ok)
	assert.Equal(t, "original", content)
}

func TestSaveFailureHitsCallbackOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := contentstoremock.NewMockGateway(ctrl)

	saveErr := errors.New("storage unavailable")
	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(saveErr)

	c := newTestController(t, store, 20)
	errs := make(chan error, 1)
	c.SetOnSaveError(func(err error) { errs <- err })

	assert.False(t, c.Save(context.Background(), "x.md", "v1", "u1", "main"))
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, saveErr)
	case <-time.After(time.Second):
		t.Fatal("onSaveError never invoked")
	}
}

func TestSaveImmediatelyCancelsPendingTimer(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := contentstoremock.NewMockGateway(ctrl)

	var mu sync.Mutex
	count := 0
	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ entity.DraftSession) error {
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		}).AnyTimes()

	c := newTestController(t, store, 40)
	ctx := context.Background()
	c.ScheduleAutoSave(ctx, "x.md", "v1", "u1", "main")
	assert.True(t, c.SaveImmediately(ctx, "x.md", "v2", "u1", "main"))

	// The debounced save must not fire on top of the immediate one.
	time.Sleep(120 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestCancelAutoSaveClearsTimer(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := contentstoremock.NewMockGateway(ctrl)
	// No Upsert expectation: a cancelled schedule must never persist.

	c := newTestController(t, store, 30)
	c.ScheduleAutoSave(context.Background(), "x.md", "v1", "u1", "main")
	c.CancelAutoSave()
	time.Sleep(100 * time.Millisecond)
}
