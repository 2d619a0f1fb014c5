// Package hub is an in-process implementation of the presence gateway,
// fanning events out to per-file subscribers.
package hub

import (
	"context"
	"sync"

	"github.com/docsmith/collabd/src/collabd/entity"
	"github.com/docsmith/collabd/src/collabd/gateway/presence"
	"go.uber.org/zap"
)

// Buffer size for each subscriber's event channel. A subscriber that falls
// this far behind starts dropping events; presence is best effort.
const _bufferSize = 32

type sessionKey struct {
	filePath string
	userID   string
}

// Hub is an in-process presence.Gateway.
type Hub struct {
	mu          sync.Mutex
	logger      *zap.SugaredLogger
	sessions    map[sessionKey]entity.TypingSession
	subscribers map[string]map[int]*subscriber // filePath -> id -> subscriber
	nextSubID   int
	closed      bool
	wg          sync.WaitGroup
}

type subscriber struct {
	hub      *Hub
	filePath string
	id       int
	events   chan presence.Event
	done     chan struct{}
}

// New creates an empty Hub.
func New(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		logger:      logger.With("gateway", "presence-hub"),
		sessions:    make(map[sessionKey]entity.TypingSession),
		subscribers: make(map[string]map[int]*subscriber),
	}
}

// Publish upserts the session and broadcasts an insert or update event.
func (h *Hub) Publish(ctx context.Context, s entity.TypingSession) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	k := sessionKey{s.FilePath, s.UserID}
	kind := presence.KindUpdate
	if _, known := h.sessions[k]; !known {
		kind = presence.KindInsert
	}
	h.sessions[k] = s
	h.broadcast(s.FilePath, presence.Event{Kind: kind, Session: s})
	return nil
}

// Delete removes the session and broadcasts the removal. Deleting an
// unknown session is a no-op.
func (h *Hub) Delete(ctx context.Context, filePath string, userID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	k := sessionKey{filePath, userID}
	s, known := h.sessions[k]
	if !known {
		return nil
	}
	delete(h.sessions, k)
	h.broadcast(filePath, presence.Event{Kind: presence.KindDelete, Session: s})
	return nil
}

// Subscribe registers h for events on filePath and starts a dispatch
// goroutine for the subscriber.
func (h *Hub) Subscribe(ctx context.Context, filePath string, handler presence.Handler) (presence.Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{
		hub:      h,
		filePath: filePath,
		id:       h.nextSubID,
		events:   make(chan presence.Event, _bufferSize),
		done:     make(chan struct{}),
	}
	h.nextSubID++

	if h.subscribers[filePath] == nil {
		h.subscribers[filePath] = make(map[int]*subscriber)
	}
	h.subscribers[filePath][sub.id] = sub

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for {
			select {
			case ev := <-sub.events:
				handler(ev)
			case <-sub.done:
				return
			}
		}
	}()

	return sub, nil
}

// Close stops all subscriber goroutines. Registered as an fx OnStop hook.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for _, subs := range h.subscribers {
		for _, sub := range subs {
			close(sub.done)
		}
	}
	h.subscribers = make(map[string]map[int]*subscriber)
	h.mu.Unlock()

	h.wg.Wait()
}

// broadcast delivers ev to every subscriber of filePath without blocking.
// Caller must hold h.mu.
func (h *Hub) broadcast(filePath string, ev presence.Event) {
	for _, sub := range h.subscribers[filePath] {
		select {
		case sub.events <- ev:
		default:
			h.logger.Warnw("dropping presence event for slow subscriber",
				"filePath", filePath, "userId", ev.Session.UserID)
		}
	}
}

// Unsubscribe removes the subscriber and stops its dispatch goroutine.
// Safe to call more than once.
func (s *subscriber) Unsubscribe() {
	h := s.hub
	h.mu.Lock()
	subs, ok := h.subscribers[s.filePath]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := subs[s.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(subs, s.id)
	if len(subs) == 0 {
		delete(h.subscribers, s.filePath)
	}
	close(s.done)
	h.mu.Unlock()
}
