// pkg/memcache/store.go
package mem

import (
	"sort"
	"sync"
	"time"
)

// Store is a mutex-guarded map whose entries expire after a TTL. Expired
// entries are dropped lazily on access and by Sweep.
type Store[V any] struct {
	mu   sync.RWMutex
	data map[string]entry[V]
	ttl  time.Duration
	now  func() time.Time
}

type entry[V any] struct {
	value     V
	storedAt  time.Time
	expiresAt time.Time
}

// NewStore returns an empty store. A ttl <= 0 keeps entries forever.
func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		data: make(map[string]entry[V]),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e := entry[V]{value: value, storedAt: now}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}
	s.data[key] = e
}

func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if s.expired(e) {
		s.Delete(key)
		return zero, false
	}
	return e.value, true
}

// Delete reports whether a live entry was removed.
func (s *Store[V]) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return false
	}
	delete(s.data, key)
	return !s.expired(e)
}

// Values returns the live values, newest first, at most limit of them
// (all when limit <= 0).
func (s *Store[V]) Values(limit int) []V {
	s.mu.RLock()
	live := make([]entry[V], 0, len(s.data))
	for _, e := range s.data {
		if !s.expired(e) {
			live = append(live, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(live, func(i, j int) bool { return live[i].storedAt.After(live[j].storedAt) })
	if limit > 0 && len(live) > limit {
		live = live[:limit]
	}

	out := make([]V, 0, len(live))
	for _, e := range live {
		out = append(out, e.value)
	}
	return out
}

// Sweep removes expired entries and returns how many were dropped.
func (s *Store[V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, e := range s.data {
		if s.expired(e) {
			delete(s.data, k)
			n++
		}
	}
	return n
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *Store[V]) expired(e entry[V]) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}
