package kvstore

import (
	"context"
	"sync"
	"time"

	"github.com/docsmith/collabd/src/collabd/internal/clock"
)

// Memory is an in-process Store, suitable for tests and for embedding hosts
// that supply their own persistence.
type Memory struct {
	mu      sync.Mutex
	clock   clock.Clock
	records map[string]record
}

// NewMemory creates an empty in-memory Store.
func NewMemory(c clock.Clock) *Memory {
	return &Memory{
		clock:   c,
		records: make(map[string]record),
	}
}

// Get returns the value for key, treating expired records as absent.
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[key]
	if !ok {
		return "", false, nil
	}
	if r.expired(m.clock.Now()) {
		delete(m.records, key)
		return "", false, nil
	}
	return r.value, true, nil
}

// Set writes value under key with the given ttl.
func (m *Memory) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := record{value: value}
	if ttl > 0 {
		r.expiresAt = m.clock.Now().Add(ttl)
	}
	m.records[key] = r
	return nil
}

// Clear removes the record for key.
func (m *Memory) Clear(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, key)
	return nil
}
