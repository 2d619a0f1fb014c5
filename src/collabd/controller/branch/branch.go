// Package branch tracks the selected branch, manages branch refs on the
// version-control host, and migrates the user's drafts across branch
// namespaces so a switch never lands on an unprepared branch.
package branch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/docsmith/collabd/src/collabd/entity"
	"github.com/docsmith/collabd/src/collabd/gateway/contentstore"
	"github.com/docsmith/collabd/src/collabd/gateway/vcs"
	"github.com/docsmith/collabd/src/collabd/internal/clock"
	cerr "github.com/docsmith/collabd/src/collabd/internal/errors"
	"github.com/docsmith/collabd/src/collabd/internal/identity"
	"github.com/docsmith/collabd/src/collabd/internal/kvstore"
	"github.com/docsmith/collabd/src/collabd/mapper"
	"github.com/docsmith/collabd/src/collabd/repository/draft"
	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey = "branch"

	_currentBranchKey = "collabd.currentBranch"

	_defaultInitial = "main"
)

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Provide(New),
)

// Controller is the inbound surface for branch management.
type Controller interface {
	// FetchBranches lists remote branches. When the selected branch no
	// longer exists remotely, or is still the initial placeholder, the
	// selection resets to the remote default.
	FetchBranches(ctx context.Context) ([]entity.Branch, error)

	// CreateBranch creates a ref from the tip of sourceBranch (the current
	// branch when empty), migrates the user's drafts into the new
	// namespace, and switches to it.
	CreateBranch(ctx context.Context, name string, sourceBranch string) error

	// SwitchBranch migrates the user's drafts to the target namespace
	// before flipping the current-branch pointer.
	SwitchBranch(ctx context.Context, name string) error

	// DeleteBranch removes the ref. The default branch is rejected without
	// a network call; deleting the current branch switches to the default
	// first.
	DeleteBranch(ctx context.Context, name string) error

	// Publish turns the current branch's drafts into a commit and pull
	// request, clearing them on success. Returns the PR URL.
	Publish(ctx context.Context, title string, body string) (string, error)

	// CurrentBranch returns the selected branch name.
	CurrentBranch() string

	// Branches returns the last fetched branch listing.
	Branches() []entity.Branch

	// Loading reports whether a remote operation is in flight.
	Loading() bool

	// LastError returns the most recent remote failure, nil after a success.
	LastError() error
}

type branchConfig struct {
	Initial string `yaml:"initial"`
}

// Params are inbound parameters to construct the controller.
type Params struct {
	fx.In

	Host     vcs.Host
	Store    contentstore.Gateway
	Drafts   draft.Repository
	Side     kvstore.Store
	Identity identity.Provider
	Clock    clock.Clock
	Logger   *zap.SugaredLogger
	Stats    tally.Scope
	Config   config.Provider
}

type controller struct {
	host   vcs.Host
	store  contentstore.Gateway
	drafts draft.Repository
	side   kvstore.Store
	userID string
	clock  clock.Clock
	logger *zap.SugaredLogger
	stats  tally.Scope

	mu          sync.Mutex
	branches    []entity.Branch
	current     string
	placeholder bool
	defaultName string
	loading     bool
	lastErr     error
}

// New creates a new branch controller, resuming the previously selected
// branch from the side-channel when one is recorded.
func New(p Params) Controller {
	var cfg branchConfig
	if err := p.Config.Get(_nameKey).Populate(&cfg); err != nil {
		panic(fmt.Errorf("unable to get branch settings from config: %w", err))
	}
	initial := cfg.Initial
	if initial == "" {
		initial = _defaultInitial
	}

	c := &controller{
		host:        p.Host,
		store:       p.Store,
		drafts:      p.Drafts,
		side:        p.Side,
		userID:      p.Identity.UserID(),
		clock:       p.Clock,
		logger:      p.Logger.With("plugin", _nameKey),
		stats:       p.Stats.SubScope(_nameKey),
		current:     initial,
		placeholder: true,
	}

	if raw, ok, err := p.Side.Get(context.Background(), _currentBranchKey); err == nil && ok {
		if name, valid := mapper.DecodeCurrentBranch(raw); valid {
			c.current = name
			c.placeholder = false
		}
	}

	return c
}

func (c *controller) FetchBranches(ctx context.Context) ([]entity.Branch, error) {
	c.setLoading(true)
	defer c.setLoading(false)

	branches, err := c.host.ListBranches(ctx)
	if err != nil {
		c.fail(fmt.Errorf("fetching branches: %w", err))
		return nil, c.LastError()
	}

	c.mu.Lock()
	c.branches = branches
	c.lastErr = nil
	for _, b := range branches {
		if b.IsDefault {
			c.defaultName = b.Name
		}
	}
	resetTo := ""
	if c.placeholder || !containsBranch(branches, c.current) {
		resetTo = c.defaultName
	}
	c.mu.Unlock()

	if resetTo != "" {
		c.setCurrent(ctx, resetTo)
	}
	c.stats.Gauge("branches").Update(float64(len(branches)))
	return branches, nil
}

func (c *controller) CreateBranch(ctx context.Context, name string, sourceBranch string) error {
	c.setLoading(true)
	defer c.setLoading(false)

	c.mu.Lock()
	from := c.current
	if sourceBranch == "" {
		sourceBranch = c.current
	}
	source, found := findBranch(c.branches, sourceBranch)
	c.mu.Unlock()

	if !found {
		if _, err := c.FetchBranches(ctx); err != nil {
			return err
		}
		c.mu.Lock()
		source, found = findBranch(c.branches, sourceBranch)
		c.mu.Unlock()
		if !found {
			err := &cerr.BranchNotFoundError{Name: sourceBranch}
			c.fail(err)
			return err
		}
	}

	created, err := c.host.CreateBranchRef(ctx, name, source.SHA)
	if err != nil {
		c.fail(fmt.Errorf("creating branch %q: %w", name, err))
		return c.LastError()
	}

	c.mu.Lock()
	c.branches = append(c.branches, created)
	c.mu.Unlock()

	if err := c.migrate(ctx, from, name); err != nil {
		// Copies already made are idempotent and re-runnable; the selection
		// stays on the prior branch.
		c.fail(err)
		return err
	}
	c.setCurrent(ctx, name)
	c.clearErr()
	c.stats.Counter("created").Inc(1)
	return nil
}

func (c *controller) SwitchBranch(ctx context.Context, name string) error {
	c.mu.Lock()
	from := c.current
	known := containsBranch(c.branches, name)
	haveListing := len(c.branches) > 0
	c.mu.Unlock()

	if from == name {
		return nil
	}
	if !known && haveListing {
		err := &cerr.BranchNotFoundError{Name: name}
		c.fail(err)
		return err
	}

	c.setLoading(true)
	defer c.setLoading(false)

	// Migration runs to completion before the pointer flips, so no state is
	// ever observed on a branch whose sessions are not prepared.
	if err := c.migrate(ctx, from, name); err != nil {
		c.fail(err)
		return err
	}
	c.setCurrent(ctx, name)
	c.clearErr()
	c.stats.Counter("switched").Inc(1)
	return nil
}

func (c *controller) DeleteBranch(ctx context.Context, name string) error {
	c.mu.Lock()
	defaultName := c.defaultName
	current := c.current
	c.mu.Unlock()

	if defaultName == "" {
		if _, err := c.FetchBranches(ctx); err != nil {
			return err
		}
		c.mu.Lock()
		defaultName = c.defaultName
		current = c.current
		c.mu.Unlock()
	}
	if name == defaultName {
		err := cerr.New(fmt.Sprintf("cannot delete the default branch %q", name))
		c.fail(err)
		return err
	}

	if name == current {
		if err := c.SwitchBranch(ctx, defaultName); err != nil {
			return err
		}
	}

	c.setLoading(true)
	defer c.setLoading(false)

	if err := c.host.DeleteBranchRef(ctx, name); err != nil {
		c.fail(fmt.Errorf("deleting branch %q: %w", name, err))
		return c.LastError()
	}

	c.mu.Lock()
	kept := c.branches[:0]
	for _, b := range c.branches {
		if b.Name != name {
			kept = append(kept, b)
		}
	}
	c.branches = kept
	c.mu.Unlock()

	c.drafts.ClearBranchContent(ctx, name)
	c.clearBranchRemote(ctx, name)
	c.clearErr()
	c.stats.Counter("deleted").Inc(1)
	return nil
}

func (c *controller) Publish(ctx context.Context, title string, body string) (string, error) {
	c.mu.Lock()
	branch := c.current
	base := c.defaultName
	c.mu.Unlock()

	drafts := c.drafts.BranchDrafts(ctx, branch)
	if len(drafts) == 0 {
		err := cerr.New("no drafts to publish")
		c.fail(err)
		return "", err
	}
	if base == "" {
		if _, err := c.FetchBranches(ctx); err != nil {
			return "", err
		}
		c.mu.Lock()
		base = c.defaultName
		c.mu.Unlock()
	}

	c.setLoading(true)
	defer c.setLoading(false)

	paths := make([]string, 0, len(drafts))
	for path := range drafts {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	files := make([]vcs.CommitFile, 0, len(paths))
	for _, path := range paths {
		files = append(files, vcs.CommitFile{Path: path, Content: drafts[path]})
	}

	url, err := c.host.CreateCommitAndPR(ctx, vcs.PullRequest{
		BaseBranch: base,
		HeadBranch: branch,
		Files:      files,
		Title:      title,
		Body:       body,
	})
	if err != nil {
		c.fail(fmt.Errorf("publishing %d file(s): %w", len(files), err))
		return "", c.LastError()
	}

	// Published drafts are done; clear them locally and remotely.
	c.drafts.ClearBranchContent(ctx, branch)
	for _, path := range paths {
		if err := c.store.Delete(ctx, path, branch); err != nil {
			c.logger.Warnw("unable to clear published draft", "filePath", path, "branchName", branch, "error", err)
		}
	}
	c.clearErr()
	c.stats.Counter("published").Inc(1)
	return url, nil
}

// migrate copies the user's drafts from one branch namespace to another.
// Copies start unlocked; a fresh branch has no claims. Old-branch drafts are
// retained, copying is idempotent.
func (c *controller) migrate(ctx context.Context, from string, to string) error {
	if from == to {
		return nil
	}

	local := c.drafts.BranchDrafts(ctx, from)

	// Remote drafts locked by this user may not be in local memory yet,
	// e.g. right after a reload.
	remote, err := c.store.Query(ctx, from)
	if err != nil {
		return fmt.Errorf("querying drafts on %q: %w", from, err)
	}
	for _, d := range remote {
		if d.LockedBy == c.userID {
			if _, present := local[d.FilePath]; !present {
				local[d.FilePath] = d.Content
			}
		}
	}

	now := c.clock.Now().UTC()
	for path, text := range local {
		c.drafts.SetContent(ctx, to, path, text)
		copyDraft := entity.DraftSession{
			FilePath:   path,
			BranchName: to,
			Content:    text,
			UpdatedAt:  now,
		}
		if err := c.store.Upsert(ctx, copyDraft); err != nil {
			return fmt.Errorf("migrating draft %q to %q: %w", path, to, err)
		}
	}
	c.stats.Counter("drafts_migrated").Inc(int64(len(local)))
	return nil
}

// clearBranchRemote removes a deleted branch's drafts from the content
// store, best effort.
func (c *controller) clearBranchRemote(ctx context.Context, branch string) {
	remote, err := c.store.Query(ctx, branch)
	if err != nil {
		c.logger.Warnw("unable to list drafts for deleted branch", "branchName", branch, "error", err)
		return
	}
	for _, d := range remote {
		if err := c.store.Delete(ctx, d.FilePath, branch); err != nil {
			c.logger.Warnw("unable to clear draft for deleted branch", "filePath", d.FilePath, "branchName", branch, "error", err)
		}
	}
}

func (c *controller) CurrentBranch() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *controller) Branches() []entity.Branch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entity.Branch(nil), c.branches...)
}

func (c *controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *controller) setCurrent(ctx context.Context, name string) {
	c.mu.Lock()
	c.current = name
	c.placeholder = false
	c.mu.Unlock()

	raw, err := mapper.EncodeCurrentBranch(name)
	if err == nil {
		// The selection never expires; a reload resumes the same branch.
		err = c.side.Set(ctx, _currentBranchKey, raw, 0)
	}
	if err != nil {
		c.logger.Warnw("unable to persist current branch", "branchName", name, "error", err)
	}
}

func (c *controller) setLoading(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = v
}

func (c *controller) fail(err error) {
	c.logger.Warnw("branch operation failed", "error", err)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
}

func (c *controller) clearErr() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = nil
}

func containsBranch(branches []entity.Branch, name string) bool {
	_, found := findBranch(branches, name)
	return found
}

func findBranch(branches []entity.Branch, name string) (entity.Branch, bool) {
	for _, b := range branches {
		if b.Name == name {
			return b, true
		}
	}
	return entity.Branch{}, false
}
