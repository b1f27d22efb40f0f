package store

import "sync"

// DefaultAccessHistoryLimit is the default per-element bound on retained
// accesses. The oldest access is evicted first once the bound is reached.
const DefaultAccessHistoryLimit = 1000

// pattern is the mutable per-element record. It is only ever touched while
// the owning shard's lock is held.
type pattern struct {
	elementID   string
	elementName string
	category    string
	accesses    *ring[Access]
	conflicts   int
}

// patternShard is one lock stripe of the PatternStore.
type patternShard struct {
	mu       sync.RWMutex
	patterns map[string]*pattern
}

// PatternStore is a concurrent keyed store of element access patterns.
//
// Patterns are created lazily on first access. Each pattern retains a bounded
// FIFO history of its most recent accesses; the append and the eviction happen
// under the same shard lock, so the bound holds under arbitrary interleaving.
type PatternStore struct {
	shards []patternShard
	limit  int
}

// NewPatternStore creates a PatternStore with the given number of lock stripes
// and per-element access history limit.
//
// Non-positive arguments fall back to DefaultShardCount and
// DefaultAccessHistoryLimit.
func NewPatternStore(shards, historyLimit int) *PatternStore {
	if historyLimit < 1 {
		historyLimit = DefaultAccessHistoryLimit
	}
	n := normalizeShards(shards)
	s := &PatternStore{shards: make([]patternShard, n), limit: historyLimit}
	for i := range s.shards {
		s.shards[i].patterns = make(map[string]*pattern)
	}
	return s
}

func (s *PatternStore) shardFor(elementID string) *patternShard {
	return &s.shards[shardIndex(elementID, len(s.shards))]
}

// RecordAccess appends an access to the element's history, creating the
// pattern lazily and evicting the oldest retained access when the history is
// at its limit.
func (s *PatternStore) RecordAccess(elementID, elementName, category string, a Access) {
	sh := s.shardFor(elementID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	p, ok := sh.patterns[elementID]
	if !ok {
		p = &pattern{
			elementID: elementID,
			accesses:  newRing[Access](s.limit),
		}
		sh.patterns[elementID] = p
	}
	if elementName != "" {
		p.elementName = elementName
	}
	if category != "" {
		p.category = category
	}
	p.accesses.Append(a)
}

// IncrementConflicts bumps the element's conflict counter.
//
// Returns false without side effects when the element is unknown; conflict
// reports against elements the engine never saw are silently dropped.
func (s *PatternStore) IncrementConflicts(elementID string) bool {
	sh := s.shardFor(elementID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	p, ok := sh.patterns[elementID]
	if !ok {
		return false
	}
	p.conflicts++
	return true
}

// Snapshot returns a deep copy of the element's pattern, and false when the
// element is unknown.
func (s *PatternStore) Snapshot(elementID string) (PatternSnapshot, bool) {
	sh := s.shardFor(elementID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	p, ok := sh.patterns[elementID]
	if !ok {
		return PatternSnapshot{}, false
	}
	return p.snapshotLocked(), true
}

// SnapshotAll returns deep copies of every pattern. Each pattern is copied
// atomically; patterns copied from different shards may interleave with
// concurrent ingestion.
func (s *PatternStore) SnapshotAll() []PatternSnapshot {
	var out []PatternSnapshot
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		for _, p := range sh.patterns {
			out = append(out, p.snapshotLocked())
		}
		sh.mu.RUnlock()
	}
	return out
}

// Len returns the number of patterns.
func (s *PatternStore) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.patterns)
		sh.mu.RUnlock()
	}
	return n
}

func (p *pattern) snapshotLocked() PatternSnapshot {
	return PatternSnapshot{
		ElementID:   p.elementID,
		ElementName: p.elementName,
		Category:    p.category,
		Accesses:    p.accesses.Snapshot(),
		Conflicts:   p.conflicts,
	}
}
