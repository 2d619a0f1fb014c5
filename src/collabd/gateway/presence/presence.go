// Package presence defines the outbound gateway to the typing-presence
// broadcast channel. Presence is best effort: it enhances the editing UX
// and is never required for correctness of saved content.
package presence

import (
	"context"

	"github.com/docsmith/collabd/src/collabd/entity"
)

// EventKind distinguishes the channel event types.
type EventKind int

const (
	// KindInsert indicates a typing session seen for the first time.
	KindInsert EventKind = iota
	// KindUpdate indicates a change to a known typing session.
	KindUpdate
	// KindDelete indicates a typing session was removed.
	KindDelete
)

// Event is a single presence change delivered to subscribers of a file.
type Event struct {
	Kind    EventKind
	Session entity.TypingSession
}

// Handler receives events for a subscribed file.
type Handler func(Event)

// Subscription is a handle for an active per-file subscription. Callers must
// call Unsubscribe on teardown to avoid listener leaks across file switches.
type Subscription interface {
	Unsubscribe()
}

// Gateway is the outbound interface to the presence channel.
type Gateway interface {
	// Publish upserts the typing session and broadcasts it to subscribers of
	// the session's file.
	Publish(ctx context.Context, s entity.TypingSession) error
	// Delete removes the typing session for (filePath, userID) and
	// broadcasts the removal.
	Delete(ctx context.Context, filePath string, userID string) error
	// Subscribe registers h for events on filePath. Events for all users are
	// delivered, including the subscriber's own; filtering is the caller's
	// concern.
	Subscribe(ctx context.Context, filePath string, h Handler) (Subscription, error)
}
