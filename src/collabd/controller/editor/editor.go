// Package editor serializes the composite editor operations that must never
// overlap: save, switch-branch with reload, and file load. Operations run
// strictly one at a time in arrival order through a state machine that only
// accepts transitions from its table.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/docsmith/collabd/src/collabd/controller/autosave"
	"github.com/docsmith/collabd/src/collabd/controller/branch"
	"github.com/docsmith/collabd/src/collabd/entity"
	"github.com/docsmith/collabd/src/collabd/gateway/contentstore"
	cerr "github.com/docsmith/collabd/src/collabd/internal/errors"
	"github.com/docsmith/collabd/src/collabd/internal/identity"
	"github.com/docsmith/collabd/src/collabd/repository/draft"
	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey = "editor"

	_defaultTimeout = 15 * time.Second
)

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Provide(New),
)

// Controller is the inbound surface for the editor operation executor.
type Controller interface {
	// Enqueue appends the operation and blocks until it completes. A hung
	// operation fails after the configured timeout and force-resets the
	// machine, rejecting everything still queued.
	Enqueue(ctx context.Context, op entity.EditorOperation) error

	// State returns the machine's current state.
	State() entity.EditorState

	// IsBlocked reports whether an operation is in flight.
	IsBlocked() bool

	// ForceReset rejects all queued and in-flight operations and returns
	// the machine to idle. Emergency escape hatch.
	ForceReset()

	// ClearQueue rejects queued operations without touching the in-flight
	// one.
	ClearQueue()
}

type editorConfig struct {
	OperationTimeoutMs int `yaml:"operationTimeoutMs"`
}

// Params are inbound parameters to construct the controller.
type Params struct {
	fx.In

	Autosave  autosave.Controller
	Branches  branch.Controller
	Store     contentstore.Gateway
	Drafts    draft.Repository
	Identity  identity.Provider
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Config    config.Provider
	Lifecycle fx.Lifecycle
}

// queued is one pending operation; done receives its result exactly once.
type queued struct {
	op   entity.EditorOperation
	done chan error
}

type controller struct {
	autosave autosave.Controller
	branches branch.Controller
	store    contentstore.Gateway
	drafts   draft.Repository
	userID   string
	logger   *zap.SugaredLogger
	stats    tally.Scope
	timeout  time.Duration

	mu             sync.Mutex
	state          entity.EditorState
	queue          []*queued
	inflightCancel context.CancelFunc

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
}

// New creates a new editor controller and registers its drainer with the fx
// lifecycle.
func New(p Params) Controller {
	var cfg editorConfig
	if err := p.Config.Get(_nameKey).Populate(&cfg); err != nil {
		panic(fmt.Errorf("unable to get editor settings from config: %w", err))
	}
	timeout := _defaultTimeout
	if cfg.OperationTimeoutMs > 0 {
		timeout = time.Duration(cfg.OperationTimeoutMs) * time.Millisecond
	}

	c := &controller{
		autosave: p.Autosave,
		branches: p.Branches,
		store:    p.Store,
		drafts:   p.Drafts,
		userID:   p.Identity.UserID(),
		logger:   p.Logger.With("plugin", _nameKey),
		stats:    p.Stats.SubScope(_nameKey),
		timeout:  timeout,
		state:    entity.StateIdle,
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
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
			c.ForceReset()
			return nil
		},
	})

	return c
}

func (c *controller) Enqueue(ctx context.Context, op entity.EditorOperation) error {
	q := &queued{op: op, done: make(chan error, 1)}

	c.mu.Lock()
	c.queue = append(c.queue, q)
	c.stats.Gauge("queue_depth").Update(float64(len(c.queue)))
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}

	select {
	case err := <-q.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *controller) State() entity.EditorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *controller) IsBlocked() bool {
	return c.State() != entity.StateIdle
}

func (c *controller) ForceReset() {
	c.mu.Lock()
	cancel := c.inflightCancel
	c.inflightCancel = nil
	c.rejectQueuedLocked("force reset")
	c.state = entity.StateIdle
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.stats.Counter("force_reset").Inc(1)
}

func (c *controller) ClearQueue() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejectQueuedLocked("queue cleared")
}

// rejectQueuedLocked fails every queued operation. Callers hold c.mu.
func (c *controller) rejectQueuedLocked(reason string) {
	for _, q := range c.queue {
		q.done <- &cerr.OperationAbortedError{Operation: opName(q.op), Reason: reason}
	}
	c.queue = nil
	c.stats.Gauge("queue_depth").Update(0)
}

// drain executes queued operations strictly one at a time.
func (c *controller) drain() {
	defer c.wg.Done()
	for {
		select {
		case <-c.stop:
			return
		case <-c.wake:
		}
		for {
			c.mu.Lock()
			if len(c.queue) == 0 {
				c.mu.Unlock()
				break
			}
			q := c.queue[0]
			c.queue = c.queue[1:]
			c.stats.Gauge("queue_depth").Update(float64(len(c.queue)))
			c.mu.Unlock()

			c.runOne(q)
		}
	}
}

func (c *controller) runOne(q *queued) {
	if !c.transition(targetState(q.op)) {
		q.done <- &cerr.OperationAbortedError{Operation: opName(q.op), Reason: "machine not idle"}
		return
	}

	opCtx, cancel := context.WithTimeout(context.Background(), c.timeout)
	c.mu.Lock()
	c.inflightCancel = cancel
	c.mu.Unlock()

	result := make(chan error, 1)
	go func() {
		result <- c.execute(opCtx, q.op)
	}()

	select {
	case err := <-result:
		c.mu.Lock()
		c.inflightCancel = nil
		c.mu.Unlock()
		cancel()
		c.transition(entity.StateIdle)
		if err != nil {
			c.stats.Counter("failed").Inc(1)
		} else {
			c.stats.Counter("completed").Inc(1)
		}
		q.done <- err

	case <-opCtx.Done():
		c.mu.Lock()
		c.inflightCancel = nil
		c.mu.Unlock()
		cancel()
		if errors.Is(opCtx.Err(), context.DeadlineExceeded) {
			// A stuck operation must not block the editor forever: fail it,
			// reset the machine, and reject everything behind it.
			c.stats.Counter("timed_out").Inc(1)
			c.logger.Warnw("editor operation timed out", "operation", opName(q.op), "timeout", c.timeout)
			q.done <- &cerr.OperationTimeoutError{Operation: opName(q.op), Timeout: c.timeout}
			c.ForceReset()
		} else {
			q.done <- &cerr.OperationAbortedError{Operation: opName(q.op), Reason: "force reset"}
		}
	}
}

// transition moves the machine to next when the table allows it. A rejected
// transition is logged and leaves the state unchanged.
func (c *controller) transition(next entity.EditorState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.CanTransitionTo(next) {
		c.stats.Counter("invalid_transition").Inc(1)
		c.logger.Warnw("invalid editor state transition",
			"error", &cerr.InvalidTransitionError{From: c.state.String(), To: next.String()})
		return false
	}
	c.state = next
	return true
}

func (c *controller) execute(ctx context.Context, op entity.EditorOperation) error {
	switch o := op.(type) {
	case entity.SaveOperation:
		if !c.autosave.SaveImmediately(ctx, o.FilePath, o.Content, c.userID, o.BranchName) {
			return cerr.New(fmt.Sprintf("draft %q was not persisted", o.FilePath))
		}
		return nil

	case entity.SwitchBranchOperation:
		err := c.branches.SwitchBranch(ctx, o.BranchName)
		// Switching always passes through the reload state before the
		// machine settles, even when the switch itself failed.
		c.transition(entity.StateLoadingContent)
		if err != nil {
			return err
		}
		if o.FilePath == "" {
			return nil
		}
		return c.loadFile(ctx, o.FilePath, o.BranchName)

	case entity.LoadFileOperation:
		branchName := o.BranchName
		if branchName == "" {
			branchName = c.branches.CurrentBranch()
		}
		return c.loadFile(ctx, o.FilePath, branchName)

	default:
		return fmt.Errorf("unknown editor operation type %T", op)
	}
}

// loadFile pulls the authoritative draft into the local content store. An
// absent draft means the file has no pending edits; nothing to pull.
func (c *controller) loadFile(ctx context.Context, path string, branchName string) error {
	d, err := c.store.Get(ctx, path, branchName)
	if cerr.IsDraftNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading draft %q on %q: %w", path, branchName, err)
	}
	c.drafts.SetContent(ctx, branchName, path, d.Content)
	return nil
}

func targetState(op entity.EditorOperation) entity.EditorState {
	switch op.(type) {
	case entity.SaveOperation:
		return entity.StateSaving
	case entity.SwitchBranchOperation:
		return entity.StateSwitchingBranch
	default:
		return entity.StateLoadingFile
	}
}

func opName(op entity.EditorOperation) string {
	switch op.(type) {
	case entity.SaveOperation:
		return "save"
	case entity.SwitchBranchOperation:
		return "switch_branch"
	case entity.LoadFileOperation:
		return "load_file"
	default:
		return "unknown"
	}
}
