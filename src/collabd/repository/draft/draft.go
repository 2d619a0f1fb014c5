// Package draft is the in-memory content store for per-branch draft text.
// It is the single owner of local draft state; it never talks to a
// collaborator.
package draft

import (
	"context"
	"sync"

	tally "github.com/uber-go/tally"
	"github.com/docsmith/collabd/src/collabd/factory"
	"go.uber.org/fx"
)

// Snapshots kept per (branch, path); the oldest is evicted first.
const _maxSnapshots = 10

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Provide(New),
)

// Snapshot is a captured prior value of a draft, for undo and diff purposes.
type Snapshot struct {
	ID      string
	Content string
}

// Repository is the branch-scoped draft content store.
type Repository interface {
	// GetContent returns the draft text for a file. The second return is
	// false when no draft exists.
	GetContent(ctx context.Context, branch string, path string) (string, bool)
	// SetContent overwrites the draft, first pushing the previous value onto
	// the snapshot history.
	SetContent(ctx context.Context, branch string, path string, text string)
	// CaptureSnapshot records an explicit checkpoint independent of
	// SetContent and returns its id.
	CaptureSnapshot(ctx context.Context, branch string, path string, text string) string
	// Snapshots returns the snapshot history for a file, oldest first.
	Snapshots(ctx context.Context, branch string, path string) []Snapshot
	// ClearBranchContent removes all drafts and snapshots for a branch.
	ClearBranchContent(ctx context.Context, branch string)
	// HasUnsavedChanges reports whether a stored draft exists and differs
	// from currentText.
	HasUnsavedChanges(ctx context.Context, branch string, path string, currentText string) bool
	// BranchDrafts returns a copy of all drafts for a branch, keyed by path.
	BranchDrafts(ctx context.Context, branch string) map[string]string
}

// Params are inbound parameters to construct the repository.
type Params struct {
	fx.In

	Stats tally.Scope
}

type repository struct {
	mu        sync.Mutex
	drafts    map[string]map[string]string     // branch -> path -> text
	snapshots map[string]map[string][]Snapshot // branch -> path -> history
	stats     tally.Scope
}

// New returns a Repository backed by process memory.
func New(p Params) Repository {
	return &repository{
		drafts:    make(map[string]map[string]string),
		snapshots: make(map[string]map[string][]Snapshot),
		stats:     p.Stats.SubScope("draft_store"),
	}
}

func (r *repository) GetContent(ctx context.Context, branch string, path string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	text, ok := r.drafts[branch][path]
	return text, ok
}

func (r *repository) SetContent(ctx context.Context, branch string, path string, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.drafts[branch][path]; ok && prev != text {
		r.pushSnapshot(branch, path, prev)
	}
	if r.drafts[branch] == nil {
		r.drafts[branch] = make(map[string]string)
	}
	r.drafts[branch][path] = text
	r.updateMetrics()
}

func (r *repository) CaptureSnapshot(ctx context.Context, branch string, path string, text string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pushSnapshot(branch, path, text)
}

func (r *repository) Snapshots(ctx context.Context, branch string, path string) []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.snapshots[branch][path]
	out := make([]Snapshot, len(history))
	copy(out, history)
	return out
}

func (r *repository) ClearBranchContent(ctx context.Context, branch string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.drafts, branch)
	delete(r.snapshots, branch)
	r.updateMetrics()
}

func (r *repository) HasUnsavedChanges(ctx context.Context, branch string, path string, currentText string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.drafts[branch][path]
	return ok && stored != currentText
}

func (r *repository) BranchDrafts(ctx context.Context, branch string) map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]string, len(r.drafts[branch]))
	for path, text := range r.drafts[branch] {
		out[path] = text
	}
	return out
}

// pushSnapshot appends to the history, evicting the oldest entry beyond the
// cap. Caller must hold r.mu.
func (r *repository) pushSnapshot(branch string, path string, text string) string {
	if r.snapshots[branch] == nil {
		r.snapshots[branch] = make(map[string][]Snapshot)
	}

	s := Snapshot{ID: factory.UUID().String(), Content: text}
	history := append(r.snapshots[branch][path], s)
	if len(history) > _maxSnapshots {
		history = history[len(history)-_maxSnapshots:]
	}
	r.snapshots[branch][path] = history
	return s.ID
}

// updateMetrics reports draft volume. Caller must hold r.mu.
func (r *repository) updateMetrics() {
	count := 0
	bytes := 0
	for _, branch := range r.drafts {
		count += len(branch)
		for _, text := range branch {
			bytes += len(text)
		}
	}
	r.stats.Gauge("draft_count").Update(float64(count))
	r.stats.Gauge("draft_bytes").Update(float64(bytes))
}
