// Package store provides the persistence and deduplication layers behind
// the resolve pipeline: a bloom-filter-fronted set of already-resolved
// track identifiers and a sqlite-backed cache of resolved tracks.
package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// SeenStore is a thread-safe, bounded set of track identifiers that have
// been resolved before. The bloom filter answers the common "never seen"
// case without touching the exact set; the LRU bounds memory by evicting
// the oldest identifiers.
type SeenStore struct {
	ids               map[string]struct{}
	bloom             *bloom.BloomFilter
	lru               *lru.Cache[string, struct{}]
	mu                sync.RWMutex
	maxIDs            int
	falsePositiveRate float64
}

func NewSeenStore(maxIDs int, falsePositiveRate float64) *SeenStore {
	if maxIDs <= 0 {
		maxIDs = 1
	}
	cache, _ := lru.New[string, struct{}](maxIDs)

	return &SeenStore{
		ids:               make(map[string]struct{}),
		bloom:             bloom.NewWithEstimates(uint(maxIDs), falsePositiveRate),
		lru:               cache,
		maxIDs:            maxIDs,
		falsePositiveRate: falsePositiveRate,
	}
}

// Seen reports whether the identifier was marked before.
func (s *SeenStore) Seen(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.bloom.TestString(id) {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Mark records an identifier, evicting the oldest one when the store is
// full.
func (s *SeenStore) Mark(id string) {
	if id == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return
	}

	s.ids[id] = struct{}{}
	s.bloom.AddString(id)
	s.lru.Add(id, struct{}{})

	for len(s.ids) > s.maxIDs {
		oldest, _, ok := s.lru.GetOldest()
		if !ok {
			break
		}
		delete(s.ids, oldest)
		s.lru.Remove(oldest)
	}
}

// Forget drops an identifier from the exact set. The bloom filter cannot
// unlearn it, which only costs an extra map lookup on later checks.
func (s *SeenStore) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.ids, id)
	s.lru.Remove(id)
}

// Size returns the number of identifiers currently held.
func (s *SeenStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Reset empties the store.
func (s *SeenStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = make(map[string]struct{})
	s.bloom = bloom.NewWithEstimates(uint(s.maxIDs), s.falsePositiveRate)
	s.lru.Purge()
}
