// Package capabilities caches the capability sets the action gate consumes.
// Caches are explicit objects with an injected clock and TTL.
package capabilities

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/odyssey-erp/backoffice-engine/internal/gate"
)

// ErrUserRequired indicates an empty user id.
var ErrUserRequired = errors.New("capabilities: user id required")

// Store persists capability sets per user.
type Store interface {
	Get(ctx context.Context, userID string) (gate.Capabilities, bool, error)
	Set(ctx context.Context, userID string, caps gate.Capabilities) error
	Invalidate(ctx context.Context, userID string) error
}

// Clock returns the current time.
type Clock func() time.Time

type memoryEntry struct {
	caps      gate.Capabilities
	expiresAt time.Time
}

// MemoryStore keeps capability sets in process.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]memoryEntry
}

// NewMemoryStore creates a store whose entries live for ttl. A nil clock
// uses time.Now.
func NewMemoryStore(ttl time.Duration, clock Clock) *MemoryStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore{ttl: ttl, now: clock, entries: make(map[string]memoryEntry)}
}

// Get returns the cached set while it is fresh.
func (s *MemoryStore) Get(_ context.Context, userID string) (gate.Capabilities, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[userID]
	if !ok {
		return gate.Capabilities{}, false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, userID)
		return gate.Capabilities{}, false, nil
	}
	return entry.caps, true, nil
}

// Set stores caps for userID.
func (s *MemoryStore) Set(_ context.Context, userID string, caps gate.Capabilities) error {
	if userID == "" {
		return ErrUserRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = memoryEntry{caps: caps, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Invalidate drops the cached set of userID.
func (s *MemoryStore) Invalidate(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}
