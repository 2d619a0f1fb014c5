// Package kvstore provides the durable client-side side-channel used for
// lock info, lock operation markers, and the current branch selection.
// Values carry an explicit TTL and degrade to absent when missing, corrupt,
// or expired.
package kvstore

import (
	"context"
	"time"
)

// Store is a small key/value store with per-key expiry.
type Store interface {
	// Get returns the value for key. The second return is false when the key
	// is absent or its record has expired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes value under key. A zero ttl means the record never expires.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Clear removes the record for key. Clearing an absent key is not an error.
	Clear(ctx context.Context, key string) error
}

// record is the stored shape shared by implementations.
type record struct {
	value     string
	expiresAt time.Time
}

func (r record) expired(now time.Time) bool {
	return !r.expiresAt.IsZero() && r.expiresAt.Before(now)
}
