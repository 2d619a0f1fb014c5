// Package autosave debounces draft edits and persists them to the
// content-storage gateway, keeping at most one save in flight.
package autosave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/docsmith/collabd/src/collabd/entity"
	"github.com/docsmith/collabd/src/collabd/gateway/contentstore"
	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey     = "autosave"
	_defaultWait = 1500 * time.Millisecond
)

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Provide(New),
)

// Controller schedules and performs draft saves. Persistence errors are
// delivered to the OnSaveError callback, never returned to the scheduling
// caller; the next keystroke naturally reschedules.
type Controller interface {
	// ScheduleAutoSave resets the debounce timer; when it fires, Save runs
	// with the given arguments. A newer call supersedes the pending one.
	ScheduleAutoSave(ctx context.Context, path string, content string, userID string, branch string)

	// Save persists the draft immediately. Returns false without queueing
	// when a save is already in flight, and false on abort or failure.
	Save(ctx context.Context, path string, content string, userID string, branch string) bool

	// SaveImmediately cancels the pending debounce timer and saves now,
	// still subject to the in-flight mutual exclusion.
	SaveImmediately(ctx context.Context, path string, content string, userID string, branch string) bool

	// CancelAutoSave clears the debounce timer and aborts any in-flight save.
	CancelAutoSave()

	// SetOnSaveError registers the callback invoked on persistence failure.
	SetOnSaveError(fn func(error))
}

type autosaveConfig struct {
	DebounceMs int `yaml:"debounceMs"`
}

// Params are inbound parameters to construct the controller.
type Params struct {
	fx.In

	Store  contentstore.Gateway
	Logger *zap.SugaredLogger
	Stats  tally.Scope
	Config config.Provider
}

type controller struct {
	store    contentstore.Gateway
	logger   *zap.SugaredLogger
	stats    tally.Scope
	debounce time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	inflight    bool
	abort       context.CancelFunc
	onSaveError func(error)
}

// New creates a new auto-save controller.
func New(p Params) Controller {
	var cfg autosaveConfig
	if err := p.Config.Get(_nameKey).Populate(&cfg); err != nil {
		panic(fmt.Errorf("unable to get autosave settings from config: %w", err))
	}
	wait := _defaultWait
	if cfg.DebounceMs > 0 {
		wait = time.Duration(cfg.DebounceMs) * time.Millisecond
	}

	return &controller{
		store:    p.Store,
		logger:   p.Logger.With("plugin", _nameKey),
		stats:    p.Stats.SubScope(_nameKey),
		debounce: wait,
	}
}

func (c *controller) ScheduleAutoSave(ctx context.Context, path string, content string, userID string, branch string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		c.timer = nil
		c.mu.Unlock()
		c.Save(ctx, path, content, userID, branch)
	})
}

func (c *controller) Save(ctx context.Context, path string, content string, userID string, branch string) bool {
	c.mu.Lock()
	if c.inflight {
		c.mu.Unlock()
		c.stats.Counter("save_skipped_inflight").Inc(1)
		return false
	}
	// A prior request may still hold an abort handle even though its
	// in-flight window has closed; cancel it before starting fresh.
	if c.abort != nil {
		c.abort()
	}
	saveCtx, cancel := context.WithCancel(ctx)
	c.abort = cancel
	c.inflight = true
	c.mu.Unlock()

	draft := entity.DraftSession{
		FilePath:   path,
		BranchName: branch,
		Content:    content,
		LockedBy:   userID,
		LockedAt:   time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	err := c.store.Upsert(saveCtx, draft)

	c.mu.Lock()
	c.inflight = false
	cb := c.onSaveError
	c.mu.Unlock()

	if err != nil {
		if saveCtx.Err() != nil {
			// Aborted saves resolve silently as "not saved".
			c.stats.Counter("save_aborted").Inc(1)
			return false
		}
		c.stats.Counter("save_failed").Inc(1)
		c.logger.Warnw("draft save failed", "filePath", path, "branchName", branch, "error", err)
		if cb != nil {
			cb(err)
		}
		return false
	}

	c.stats.Counter("save_completed").Inc(1)
	return true
}

func (c *controller) SaveImmediately(ctx context.Context, path string, content string, userID string, branch string) bool {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	return c.Save(ctx, path, content, userID, branch)
}

func (c *controller) CancelAutoSave() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.abort != nil {
		c.abort()
		c.abort = nil
	}
	c.inflight = false
}

func (c *controller) SetOnSaveError(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSaveError = fn
}
