package handoff

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	signal  OpenPart
	expires time.Time
}

// MemoryStore is an in-process Store used when no Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore creates a MemoryStore whose signals live for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Put stores the signal, replacing any pending one.
func (s *MemoryStore) Put(_ context.Context, site, actor string, signal OpenPart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.entries[storeKey(site, actor)] = memoryEntry{signal: signal, expires: now.Add(s.ttl)}
	return nil
}

// Consume returns and removes the pending signal.
func (s *MemoryStore) Consume(_ context.Context, site, actor string) (OpenPart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := storeKey(site, actor)
	entry, ok := s.entries[k]
	if !ok {
		return OpenPart{}, ErrNotFound
	}
	delete(s.entries, k)
	if !s.now().Before(entry.expires) {
		return OpenPart{}, ErrNotFound
	}
	return entry.signal, nil
}

// Close releases nothing; it exists to satisfy Store.
func (s *MemoryStore) Close() error {
	return nil
}

// sweep drops expired entries. Callers hold s.mu.
func (s *MemoryStore) sweep(now time.Time) {
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
}
