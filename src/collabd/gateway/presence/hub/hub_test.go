package hub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/docsmith/collabd/src/collabd/factory"
	"github.com/docsmith/collabd/src/collabd/gateway/presence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []presence.Event
}

func (r *eventRecorder) handle(ev presence.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) snapshot() []presence.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]presence.Event, len(r.events))
	copy(out, r.events)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never met")
}

func TestPublishFanout(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	h := New(zap.NewNop().Sugar())
	defer h.Close()

	rec := &eventRecorder{}
	sub, err := h.Subscribe(ctx, "guide.md", rec.handle)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	s := factory.TypingSession("guide.md", "userB", "draft v1")
	require.NoError(t, h.Publish(ctx, s))

	waitFor(t, func() bool { return len(rec.snapshot()) == 1 })
	events := rec.snapshot()
	assert.Equal(t, presence.KindInsert, events[0].Kind)
	assert.Equal(t, "userB", events[0].Session.UserID)

	// A second publish for the same session is an update.
	s.Content = "draft v2"
	require.NoError(t, h.Publish(ctx, s))
	waitFor(t, func() bool { return len(rec.snapshot()) == 2 })
	assert.Equal(t, presence.KindUpdate, rec.snapshot()[1].Kind)
}

func TestSubscribersScopedToFile(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	h := New(zap.NewNop().Sugar())
	defer h.Close()

	recA := &eventRecorder{}
	subA, err := h.Subscribe(ctx, "a.md", recA.handle)
	require.NoError(t, err)
	defer subA.Unsubscribe()

	recB := &eventRecorder{}
	subB, err := h.Subscribe(ctx, "b.md", recB.handle)
	require.NoError(t, err)
	defer subB.Unsubscribe()

	require.NoError(t, h.Publish(ctx, factory.TypingSession("a.md", "userB", "hello")))

	waitFor(t, func() bool { return len(recA.snapshot()) == 1 })
	assert.Empty(t, recB.snapshot())
}

func TestDeleteBroadcasts(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	h := New(zap.NewNop().Sugar())
	defer h.Close()

	rec := &eventRecorder{}
	sub, err := h.Subscribe(ctx, "guide.md", rec.handle)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, h.Publish(ctx, factory.TypingSession("guide.md", "userB", "x")))
	require.NoError(t, h.Delete(ctx, "guide.md", "userB"))

	waitFor(t, func() bool { return len(rec.snapshot()) == 2 })
	assert.Equal(t, presence.KindDelete, rec.snapshot()[1].Kind)

	// Deleting an unknown session is a silent no-op.
	require.NoError(t, h.Delete(ctx, "guide.md", "nobody"))
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	h := New(zap.NewNop().Sugar())
	defer h.Close()

	rec := &eventRecorder{}
	sub, err := h.Subscribe(ctx, "guide.md", rec.handle)
	require.NoError(t, err)

	sub.Unsubscribe()
	// A second Unsubscribe is safe.
	sub.Unsubscribe()

	require.NoError(t, h.Publish(ctx, factory.TypingSession("guide.md", "userB", "x")))
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}
