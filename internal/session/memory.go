package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultMemorySize = 1024
	defaultMemoryTTL  = 30 * time.Minute
)

// MemoryStore keeps sessions in an expiring LRU. The oldest sessions are
// evicted once Size is reached.
type MemoryStore struct {
	cache *expirable.LRU[string, *Session]
	now   func() time.Time
}

// NewMemoryStore creates a memory store. Non-positive size or ttl use defaults.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = defaultMemorySize
	}
	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}
	return &MemoryStore{
		cache: expirable.NewLRU[string, *Session](size, nil, ttl),
		now:   time.Now,
	}
}

// Save stores a copy of the session header; the cycles are shared read-only.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	stored := *s
	m.cache.Add(s.ID, &stored)
	return nil
}

// Get returns the session or ErrNotFound.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s, ok := m.cache.Get(id)
	if !ok || s.Expired(m.now()) {
		return nil, ErrNotFound
	}
	out := *s
	return &out, nil
}

// Delete removes the session. Unknown IDs return ErrNotFound.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	if !m.cache.Remove(id) {
		return ErrNotFound
	}
	return nil
}

// Len is the number of sessions currently held.
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}

// Health always succeeds for the memory store.
func (m *MemoryStore) Health(context.Context) error {
	return nil
}

// Close drops every session.
func (m *MemoryStore) Close() error {
	m.cache.Purge()
	return nil
}
