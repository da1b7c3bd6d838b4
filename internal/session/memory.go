package session

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/soyeahso/adaudit/internal/domain"
)

// DefaultMaxEntries bounds the memory store when no size is configured.
const DefaultMaxEntries = 10000

type entry struct {
	sess      *domain.Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in a bounded LRU. Entries past their TTL are
// treated as absent and dropped on access or by Sweep.
type MemoryStore struct {
	cache *lru.Cache[string, entry]
	now   func() time.Time
}

// NewMemoryStore creates a memory store holding at most maxEntries sessions.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, entry](maxEntries)
	return &MemoryStore{cache: cache, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, key string) (*domain.Session, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	e, ok := m.cache.Get(key)
	if !ok {
		return nil, nil
	}
	if !m.now().Before(e.expiresAt) {
		m.cache.Remove(key)
		return nil, nil
	}
	return e.sess.Clone(), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, s *domain.Session, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.cache.Add(key, entry{sess: s.Clone(), expiresAt: m.now().Add(ttl)})
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	m.cache.Remove(key)
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	now := m.now()
	removed := 0
	for _, key := range m.cache.Keys() {
		e, ok := m.cache.Peek(key)
		if ok && !now.Before(e.expiresAt) {
			m.cache.Remove(key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}
