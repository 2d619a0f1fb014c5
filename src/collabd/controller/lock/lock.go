// Package lock arbitrates exclusive editing claims on (filePath, branchName)
// pairs. All lock transitions funnel through a single FIFO queue so two
// near-simultaneous requests never interleave, and every successful
// transition is mirrored to a durable side-channel for fast reload recovery.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/docsmith/collabd/src/collabd/entity"
	"github.com/docsmith/collabd/src/collabd/gateway/contentstore"
	"github.com/docsmith/collabd/src/collabd/internal/clock"
	cerr "github.com/docsmith/collabd/src/collabd/internal/errors"
	"github.com/docsmith/collabd/src/collabd/internal/kvstore"
	"github.com/docsmith/collabd/src/collabd/mapper"
	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_nameKey = "lock"

	_lockInfoKey = "collabd.lockInfo"
	_lockOpKey   = "collabd.lockOperation"

	_defaultInfoTTL = 2 * time.Hour
	_defaultOpTTL   = 5 * time.Minute

	_queueCapacity = 64
)

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Provide(New),
)

// Controller coordinates edit locks. Acquire, release, and switch requests
// execute strictly one at a time in arrival order.
type Controller interface {
	// AcquireLock claims the lock for userID. Returns LockHeldError when the
	// authoritative store shows a different non-empty holder; locks are
	// never stolen.
	AcquireLock(ctx context.Context, path string, branch string, userID string) (entity.LockInfo, error)

	// ReleaseLock clears the lock only if userID currently holds it; a
	// release by a non-holder is a no-op.
	ReleaseLock(ctx context.Context, path string, branch string, userID string) error

	// SwitchLock releases fromPath and acquires toPath as one queued
	// transition.
	SwitchLock(ctx context.Context, fromPath string, toPath string, branch string, userID string) (entity.LockInfo, error)

	// HeldFiles returns the paths on branch whose authoritative lock holder
	// is userID.
	HeldFiles(ctx context.Context, branch string, userID string) ([]string, error)

	// CachedLock returns the advisory side-channel lock record, if any. The
	// authoritative store wins on conflict.
	CachedLock(ctx context.Context) (entity.LockInfo, bool)

	// RecoverInterrupted cleans up a half-finished transition left behind by
	// a crashed client, then clears the transition marker.
	RecoverInterrupted(ctx context.Context, userID string) error
}

type lockConfig struct {
	InfoTTLMinutes int `yaml:"infoTtlMinutes"`
	OpTTLMinutes   int `yaml:"opTtlMinutes"`
}

// Params are inbound parameters to construct the controller.
type Params struct {
	fx.In

	Store     contentstore.Gateway
	Side      kvstore.Store
	Clock     clock.Clock
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Config    config.Provider
	Lifecycle fx.Lifecycle
}

// request is one queued lock transition. run executes on the drainer
// goroutine; done is closed when it finishes.
type request struct {
	run  func()
	done chan struct{}
}

type controller struct {
	store  contentstore.Gateway
	side   kvstore.Store
	clock  clock.Clock
	logger *zap.SugaredLogger
	stats  tally.Scope

	infoTTL time.Duration
	opTTL   time.Duration

	queue chan *request
	stop  chan struct{}
	wg    sync.WaitGroup
}

// New creates a new lock controller and registers its queue drainer with the
// fx lifecycle.
func New(p Params) Controller {
	var cfg lockConfig
	if err := p.Config.Get(_nameKey).Populate(&cfg); err != nil {
		panic(fmt.Errorf("unable to get lock settings from config: %w", err))
	}
	infoTTL := _defaultInfoTTL
	if cfg.InfoTTLMinutes > 0 {
		infoTTL = time.Duration(cfg.InfoTTLMinutes) * time.Minute
	}
	opTTL := _defaultOpTTL
	if cfg.OpTTLMinutes > 0 {
		opTTL = time.Duration(cfg.OpTTLMinutes) * time.Minute
	}

	c := &controller{
		store:   p.Store,
		side:    p.Side,
		clock:   p.Clock,
		logger:  p.Logger.With("plugin", _nameKey),
		stats:   p.Stats.SubScope(_nameKey),
		infoTTL: infoTTL,
		opTTL:   opTTL,
		queue:   make(chan *request, _queueCapacity),
		stop:    make(chan struct{}),
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.wg.Add(1)
			go c.drain()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(c.stop)
			c.wg.Wait()
			return nil
		},
	})

	return c
}

// drain processes queued transitions strictly one at a time. A panicking
// item is logged and does not halt the queue.
func (c *controller) drain() {
	defer c.wg.Done()
	for {
		select {
		case <-c.stop:
			return
		case req := <-c.queue:
			c.runOne(req)
		}
	}
}

func (c *controller) runOne(req *request) {
	defer close(req.done)
	defer func() {
		if r := recover(); r != nil {
			c.stats.Counter("queue_panic").Inc(1)
			c.logger.Errorw("lock operation panicked", "panic", r)
		}
	}()
	req.run()
}

// enqueue appends a transition and blocks until the drainer has run it or
// ctx is cancelled. A cancelled wait leaves the transition in the queue; it
// still executes in order.
func (c *controller) enqueue(ctx context.Context, run func()) error {
	req := &request{run: run, done: make(chan struct{})}
	select {
	case c.queue <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	c.stats.Gauge("queue_depth").Update(float64(len(c.queue)))
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *controller) AcquireLock(ctx context.Context, path string, branch string, userID string) (entity.LockInfo, error) {
	var (
		info entity.LockInfo
		err  error
	)
	qErr := c.enqueue(ctx, func() {
		marker := entity.LockAcquiring{FilePath: path, BranchName: branch, Timestamp: c.clock.Now().UTC()}
		c.writeMarker(ctx, marker)
		defer c.clearMarker(ctx)
		info, err = c.acquire(ctx, path, branch, userID)
	})
	if qErr != nil {
		return entity.LockInfo{}, qErr
	}
	return info, err
}

func (c *controller) ReleaseLock(ctx context.Context, path string, branch string, userID string) error {
	var err error
	qErr := c.enqueue(ctx, func() {
		marker := entity.LockReleasing{FilePath: path, BranchName: branch, Timestamp: c.clock.Now().UTC()}
		c.writeMarker(ctx, marker)
		defer c.clearMarker(ctx)
		err = c.release(ctx, path, branch, userID)
	})
	if qErr != nil {
		return qErr
	}
	return err
}

func (c *controller) SwitchLock(ctx context.Context, fromPath string, toPath string, branch string, userID string) (entity.LockInfo, error) {
	var (
		info entity.LockInfo
		err  error
	)
	qErr := c.enqueue(ctx, func() {
		marker := entity.LockSwitching{FromFile: fromPath, ToFile: toPath, BranchName: branch, Timestamp: c.clock.Now().UTC()}
		c.writeMarker(ctx, marker)
		defer c.clearMarker(ctx)
		if err = c.release(ctx, fromPath, branch, userID); err != nil {
			return
		}
		info, err = c.acquire(ctx, toPath, branch, userID)
	})
	if qErr != nil {
		return entity.LockInfo{}, qErr
	}
	return info, err
}

// acquire performs the authoritative claim. Runs on the drainer goroutine.
func (c *controller) acquire(ctx context.Context, path string, branch string, userID string) (entity.LockInfo, error) {
	existing, err := c.store.Get(ctx, path, branch)
	switch {
	case err == nil:
		if existing.LockedByOther(userID) {
			c.stats.Counter("denied").Inc(1)
			return entity.LockInfo{}, &cerr.LockHeldError{FilePath: path, BranchName: branch, HeldBy: existing.LockedBy}
		}
	case cerr.IsDraftNotFound(err):
		existing = entity.DraftSession{FilePath: path, BranchName: branch}
	default:
		// No confirmation means not locked; the operation is left un-applied.
		return entity.LockInfo{}, fmt.Errorf("checking lock for %q on %q: %w", path, branch, err)
	}

	now := c.clock.Now().UTC()
	existing.LockedBy = userID
	existing.LockedAt = now
	existing.UpdatedAt = now
	if err := c.store.Upsert(ctx, existing); err != nil {
		return entity.LockInfo{}, fmt.Errorf("claiming lock for %q on %q: %w", path, branch, err)
	}

	info := entity.LockInfo{FilePath: path, BranchName: branch, UserID: userID, AcquiredAt: now}
	c.writeInfo(ctx, info)
	c.stats.Counter("acquired").Inc(1)
	return info, nil
}

// release clears the claim when userID holds it. Runs on the drainer
// goroutine.
func (c *controller) release(ctx context.Context, path string, branch string, userID string) error {
	existing, err := c.store.Get(ctx, path, branch)
	if cerr.IsDraftNotFound(err) {
		c.clearInfo(ctx, path, branch)
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking lock for %q on %q: %w", path, branch, err)
	}
	if existing.LockedBy != userID {
		return nil
	}

	if existing.Content == "" {
		// Releasing an empty draft retires the session entirely.
		if err := c.store.Delete(ctx, path, branch); err != nil {
			return fmt.Errorf("clearing empty draft %q on %q: %w", path, branch, err)
		}
	} else {
		existing.LockedBy = ""
		existing.LockedAt = time.Time{}
		existing.UpdatedAt = c.clock.Now().UTC()
		if err := c.store.Upsert(ctx, existing); err != nil {
			return fmt.Errorf("releasing lock for %q on %q: %w", path, branch, err)
		}
	}

	c.clearInfo(ctx, path, branch)
	c.stats.Counter("released").Inc(1)
	return nil
}

func (c *controller) HeldFiles(ctx context.Context, branch string, userID string) ([]string, error) {
	drafts, err := c.store.Query(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("querying locks on %q: %w", branch, err)
	}
	var held []string
	for _, d := range drafts {
		if d.LockedBy == userID {
			held = append(held, d.FilePath)
		}
	}
	return held, nil
}

func (c *controller) CachedLock(ctx context.Context) (entity.LockInfo, bool) {
	raw, ok, err := c.side.Get(ctx, _lockInfoKey)
	if err != nil || !ok {
		return entity.LockInfo{}, false
	}
	return mapper.DecodeLockInfo(raw)
}

func (c *controller) RecoverInterrupted(ctx context.Context, userID string) error {
	raw, ok, err := c.side.Get(ctx, _lockOpKey)
	if err != nil {
		return fmt.Errorf("reading lock operation marker: %w", err)
	}
	if !ok {
		return nil
	}
	op, ok := mapper.DecodeLockOperation(raw)
	if !ok {
		// Corrupt markers degrade to absent.
		return c.side.Clear(ctx, _lockOpKey)
	}

	c.stats.Counter("recovered_interrupted").Inc(1)
	c.logger.Infow("recovering interrupted lock transition", "startedAt", op.StartedAt())

	switch m := op.(type) {
	case entity.LockAcquiring:
		err = c.ReleaseLock(ctx, m.FilePath, m.BranchName, userID)
	case entity.LockReleasing:
		err = c.ReleaseLock(ctx, m.FilePath, m.BranchName, userID)
	case entity.LockSwitching:
		// Either side may have been claimed; release is a no-op for a file
		// the user does not hold.
		err = multierr.Append(
			c.ReleaseLock(ctx, m.FromFile, m.BranchName, userID),
			c.ReleaseLock(ctx, m.ToFile, m.BranchName, userID),
		)
	}
	if err != nil {
		return err
	}
	return c.side.Clear(ctx, _lockOpKey)
}

// Side-channel writes are advisory; failures are logged and swallowed.

func (c *controller) writeInfo(ctx context.Context, info entity.LockInfo) {
	raw, err := mapper.EncodeLockInfo(info)
	if err == nil {
		err = c.side.Set(ctx, _lockInfoKey, raw, c.infoTTL)
	}
	if err != nil {
		c.logger.Warnw("unable to persist lock info", "filePath", info.FilePath, "error", err)
	}
}

func (c *controller) clearInfo(ctx context.Context, path string, branch string) {
	cached, ok := c.CachedLock(ctx)
	if ok && (cached.FilePath != path || cached.BranchName != branch) {
		return
	}
	if err := c.side.Clear(ctx, _lockInfoKey); err != nil {
		c.logger.Warnw("unable to clear lock info", "filePath", path, "error", err)
	}
}

func (c *controller) writeMarker(ctx context.Context, op entity.LockOperation) {
	raw, err := mapper.EncodeLockOperation(op)
	if err == nil {
		err = c.side.Set(ctx, _lockOpKey, raw, c.opTTL)
	}
	if err != nil {
		c.logger.Warnw("unable to persist lock operation marker", "error", err)
	}
}

func (c *controller) clearMarker(ctx context.Context) {
	if err := c.side.Clear(ctx, _lockOpKey); err != nil {
		c.logger.Warnw("unable to clear lock operation marker", "error", err)
	}
}
