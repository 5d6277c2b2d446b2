package ratelimit

import (
	"context"
	"sync"
	"time"
)

const defaultMaxEntries = 5000

// MemoryStore keeps fixed-window counters in process memory.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*windowEntry
	maxEntries int
}

type windowEntry struct {
	windowStart time.Time
	count       int64
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]*windowEntry),
		maxEntries: defaultMaxEntries,
	}
}

var _ Store = (*MemoryStore)(nil)

// Hit implements Store. All keys share one mutex; the critical section is a
// map lookup and an increment, so contention stays negligible at this scale.
func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration, max int) (int64, time.Duration, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || now.Sub(entry.windowStart) >= window {
		if !ok && len(s.entries) >= s.maxEntries {
			s.sweep(now, window)
		}
		s.entries[key] = &windowEntry{windowStart: now, count: 1}
		return 1, 0, nil
	}

	if entry.count >= int64(max) {
		retryAfter := entry.windowStart.Add(window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return entry.count + 1, retryAfter, nil
	}

	entry.count++
	return entry.count, 0, nil
}

// sweep drops entries whose window has elapsed. Called with the mutex held.
func (s *MemoryStore) sweep(now time.Time, window time.Duration) {
	for key, entry := range s.entries {
		if now.Sub(entry.windowStart) >= window {
			delete(s.entries, key)
		}
	}
}

// Len reports the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
