package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStateStore keeps view state in process memory. Expired entries are
// removed by Sweep.
type MemoryStateStore struct {
	jsonStates
	blobs *memoryBlobs
}

// NewMemoryStateStore creates a MemoryStateStore with a sliding ttl.
func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	blobs := &memoryBlobs{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	return &MemoryStateStore{jsonStates: jsonStates{blobs: blobs}, blobs: blobs}
}

// Sweep drops expired entries and returns how many were removed.
func (s *MemoryStateStore) Sweep() int {
	return s.blobs.sweep()
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryStateStore) Len() int {
	s.blobs.mu.Lock()
	defer s.blobs.mu.Unlock()
	return len(s.blobs.entries)
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memoryBlobs struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func (b *memoryBlobs) expiry() time.Time {
	if b.ttl <= 0 {
		return time.Time{}
	}
	return b.now().Add(b.ttl)
}

func (b *memoryBlobs) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !b.now().Before(e.expiresAt)
}

func (b *memoryBlobs) get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	if !ok || b.expired(e) {
		return nil, false, nil
	}
	e.expiresAt = b.expiry()
	b.entries[key] = e
	return e.data, true, nil
}

func (b *memoryBlobs) set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = memoryEntry{data: value, expiresAt: b.expiry()}
	return nil
}

func (b *memoryBlobs) del(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		delete(b.entries, k)
	}
	return nil
}

func (b *memoryBlobs) sweep() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	removed := 0
	for k, e := range b.entries {
		if b.expired(e) {
			delete(b.entries, k)
			removed++
		}
	}
	return removed
}
