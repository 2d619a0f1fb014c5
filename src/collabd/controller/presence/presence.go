// Package presence tracks live typing activity: it broadcasts the local
// user's in-progress keystrokes and maintains the list of other users
// currently typing in the watched file. Presence is best effort and never
// affects the correctness of saved content.
package presence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/docsmith/collabd/src/collabd/controller/lock"
	"github.com/docsmith/collabd/src/collabd/entity"
	"github.com/docsmith/collabd/src/collabd/gateway/presence"
	"github.com/docsmith/collabd/src/collabd/internal/clock"
	"github.com/docsmith/collabd/src/collabd/internal/identity"
	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey = "presence"

	_defaultTypingExpire  = time.Second
	_defaultDisplayExpire = 3 * time.Second
)

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Provide(New),
)

// Controller is the inbound surface for typing presence.
type Controller interface {
	// HandleTyping broadcasts a keystroke immediately, deduplicating
	// identical consecutive content per file. Broadcast failures are logged
	// and swallowed.
	HandleTyping(ctx context.Context, path string, content string, cursorPosition int)

	// IsTyping reports whether the local user typed within the last second.
	IsTyping() bool

	// WatchFile subscribes to presence events for path, replacing any prior
	// subscription.
	WatchFile(ctx context.Context, path string) error

	// Unwatch drops the active subscription, if any.
	Unwatch()

	// ActiveSessions returns other users' typing sessions for path that were
	// updated within the display window.
	ActiveSessions(path string) []entity.TypingSession

	// CleanupTypingSession deletes the local user's session for path. It is
	// idempotent: repeated calls are no-ops until the path is republished.
	CleanupTypingSession(ctx context.Context, path string)

	// CleanupTypingSessionsSmartly deletes the local user's sessions for
	// every file except the active file and files the user holds locks on.
	CleanupTypingSessionsSmartly(ctx context.Context, activeFile string, branch string)

	// Teardown deletes every session the local user has published. Wired to
	// shutdown and the page-hide equivalent.
	Teardown(ctx context.Context)
}

type presenceConfig struct {
	TypingExpireMs  int `yaml:"typingExpireMs"`
	DisplayExpireMs int `yaml:"displayExpireMs"`
}

// Params are inbound parameters to construct the controller.
type Params struct {
	fx.In

	Gateway   presence.Gateway
	Locks     lock.Controller
	Identity  identity.Provider
	Clock     clock.Clock
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Config    config.Provider
	Lifecycle fx.Lifecycle
}

type sessionKey struct {
	filePath string
	userID   string
}

type controller struct {
	gateway presence.Gateway
	locks   lock.Controller
	userID  string
	clock   clock.Clock
	logger  *zap.SugaredLogger
	stats   tally.Scope

	typingExpire  time.Duration
	displayExpire time.Duration

	mu          sync.Mutex
	isTyping    bool
	typingTimer *time.Timer
	lastContent map[string]string
	published   map[string]bool
	cleaned     map[string]bool
	sessions    map[sessionKey]entity.TypingSession
	sub         presence.Subscription
}

// New creates a new presence controller. Teardown runs on fx shutdown so a
// closed process never leaves orphaned presence rows behind.
func New(p Params) Controller {
	var cfg presenceConfig
	if err := p.Config.Get(_nameKey).Populate(&cfg); err != nil {
		panic(fmt.Errorf("unable to get presence settings from config: %w", err))
	}
	typingExpire := _defaultTypingExpire
	if cfg.TypingExpireMs > 0 {
		typingExpire = time.Duration(cfg.TypingExpireMs) * time.Millisecond
	}
	displayExpire := _defaultDisplayExpire
	if cfg.DisplayExpireMs > 0 {
		displayExpire = time.Duration(cfg.DisplayExpireMs) * time.Millisecond
	}

	c := &controller{
		gateway:       p.Gateway,
		locks:         p.Locks,
		userID:        p.Identity.UserID(),
		clock:         p.Clock,
		logger:        p.Logger.With("plugin", _nameKey),
		stats:         p.Stats.SubScope(_nameKey),
		typingExpire:  typingExpire,
		displayExpire: displayExpire,
		lastContent:   make(map[string]string),
		published:     make(map[string]bool),
		cleaned:       make(map[string]bool),
		sessions:      make(map[sessionKey]entity.TypingSession),
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			c.Teardown(ctx)
			c.Unwatch()
			c.stopTypingTimer()
			return nil
		},
	})

	return c
}

func (c *controller) HandleTyping(ctx context.Context, path string, content string, cursorPosition int) {
	c.mu.Lock()
	c.markTypingLocked()
	if c.lastContent[path] == content && c.published[path] {
		c.mu.Unlock()
		c.stats.Counter("publish_deduped").Inc(1)
		return
	}
	c.lastContent[path] = content
	c.published[path] = true
	c.cleaned[path] = false
	c.mu.Unlock()

	session := entity.TypingSession{
		FilePath:       path,
		UserID:         c.userID,
		Content:        content,
		CursorPosition: cursorPosition,
		UpdatedAt:      c.clock.Now().UTC(),
	}
	if err := c.gateway.Publish(ctx, session); err != nil {
		c.stats.Counter("publish_failed").Inc(1)
		c.logger.Warnw("presence publish failed", "filePath", path, "error", err)
	}
}

// markTypingLocked flips isTyping on and arms the expiry timer. Callers hold
// c.mu.
func (c *controller) markTypingLocked() {
	c.isTyping = true
	if c.typingTimer != nil {
		c.typingTimer.Stop()
	}
	c.typingTimer = time.AfterFunc(c.typingExpire, func() {
		c.mu.Lock()
		c.isTyping = false
		c.typingTimer = nil
		c.mu.Unlock()
	})
}

func (c *controller) stopTypingTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.typingTimer != nil {
		c.typingTimer.Stop()
		c.typingTimer = nil
	}
	c.isTyping = false
}

func (c *controller) IsTyping() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isTyping
}

func (c *controller) WatchFile(ctx context.Context, path string) error {
	c.Unwatch()

	sub, err := c.gateway.Subscribe(ctx, path, c.onEvent)
	if err != nil {
		return fmt.Errorf("subscribing to presence for %q: %w", path, err)
	}
	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()
	return nil
}

func (c *controller) Unwatch() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

// onEvent upserts or removes remote typing sessions. The local user's own
// events are never surfaced.
func (c *controller) onEvent(ev presence.Event) {
	if ev.Session.UserID == c.userID {
		return
	}
	key := sessionKey{filePath: ev.Session.FilePath, userID: ev.Session.UserID}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch ev.Kind {
	case presence.KindInsert, presence.KindUpdate:
		c.sessions[key] = ev.Session
	case presence.KindDelete:
		delete(c.sessions, key)
	}
	c.stats.Gauge("remote_sessions").Update(float64(len(c.sessions)))
}

func (c *controller) ActiveSessions(path string) []entity.TypingSession {
	cutoff := c.clock.Now().UTC().Add(-c.displayExpire)

	c.mu.Lock()
	defer c.mu.Unlock()
	var active []entity.TypingSession
	for key, s := range c.sessions {
		if key.filePath == path && s.UpdatedAt.After(cutoff) {
			active = append(active, s)
		}
	}
	return active
}

func (c *controller) CleanupTypingSession(ctx context.Context, path string) {
	c.mu.Lock()
	if c.cleaned[path] || !c.published[path] {
		c.mu.Unlock()
		return
	}
	c.cleaned[path] = true
	delete(c.published, path)
	delete(c.lastContent, path)
	c.mu.Unlock()

	if err := c.gateway.Delete(ctx, path, c.userID); err != nil {
		c.stats.Counter("cleanup_failed").Inc(1)
		c.logger.Warnw("presence cleanup failed", "filePath", path, "error", err)
	}
}

func (c *controller) CleanupTypingSessionsSmartly(ctx context.Context, activeFile string, branch string) {
	protected := map[string]bool{activeFile: true}
	held, err := c.locks.HeldFiles(ctx, branch, c.userID)
	if err != nil {
		// Without the authoritative view, deleting anything risks destroying
		// presence for a file still being edited.
		c.logger.Warnw("skipping smart cleanup, lock query failed", "branchName", branch, "error", err)
		return
	}
	for _, path := range held {
		protected[path] = true
	}

	c.mu.Lock()
	var stale []string
	for path := range c.published {
		if !protected[path] {
			stale = append(stale, path)
		}
	}
	c.mu.Unlock()

	for _, path := range stale {
		c.CleanupTypingSession(ctx, path)
	}
}

func (c *controller) Teardown(ctx context.Context) {
	c.mu.Lock()
	var paths []string
	for path := range c.published {
		paths = append(paths, path)
	}
	c.mu.Unlock()

	for _, path := range paths {
		c.CleanupTypingSession(ctx, path)
	}
}
