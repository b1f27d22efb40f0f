package store

import (
	"sync"
	"time"
)

// profile is the mutable per-user record. It is only ever touched while the
// owning shard's lock is held.
type profile struct {
	userID          string
	userName        string
	hourly          [24]int
	categories      map[string]int
	levels          map[string]int
	totalActivities int
	lastActive      time.Time
	syncCount       int
	lastSync        time.Time
	avgSyncInterval time.Duration
}

// profileShard is one lock stripe of the ProfileStore.
type profileShard struct {
	mu       sync.RWMutex
	profiles map[string]*profile
}

// ProfileStore is a concurrent keyed store of user behavior profiles.
//
// Profiles are created lazily on first activity or sync and live for the
// process lifetime; there is no deletion or decay. Updates to the same user
// are atomic with respect to each other; updates to different users contend
// only when they land on the same lock stripe.
//
// Example:
//
//	profiles := store.NewProfileStore(16)
//	profiles.Touch("user_001", "Alice", "Walls", "Level 1", 9, time.Now())
//	snap, ok := profiles.Snapshot("user_001")
type ProfileStore struct {
	shards []profileShard
}

// NewProfileStore creates a ProfileStore with the given number of lock stripes.
//
// A non-positive count falls back to DefaultShardCount.
func NewProfileStore(shards int) *ProfileStore {
	n := normalizeShards(shards)
	s := &ProfileStore{shards: make([]profileShard, n)}
	for i := range s.shards {
		s.shards[i].profiles = make(map[string]*profile)
	}
	return s
}

func (s *ProfileStore) shardFor(userID string) *profileShard {
	return &s.shards[shardIndex(userID, len(s.shards))]
}

// getOrCreateLocked fetches or lazily creates the profile for userID.
// The shard lock must be held for writing.
func (sh *profileShard) getOrCreateLocked(userID, userName string) *profile {
	p, ok := sh.profiles[userID]
	if !ok {
		p = &profile{
			userID:     userID,
			categories: make(map[string]int),
			levels:     make(map[string]int),
		}
		sh.profiles[userID] = p
	}
	if userName != "" {
		p.userName = userName
	}
	return p
}

// Touch records one activity for the user: increments the histogram slot for
// hour, the category counter, the level counter when level is non-empty, and
// the total count, and advances the last-activity timestamp.
//
// The hour is supplied by the caller rather than derived from ts: the
// histogram buckets by the engine clock at ingestion time, while ts carries
// the activity's own timestamp for the last-active marker.
func (s *ProfileStore) Touch(userID, userName, category, level string, hour int, ts time.Time) {
	if hour < 0 || hour > 23 {
		return
	}
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	p := sh.getOrCreateLocked(userID, userName)
	p.hourly[hour]++
	p.totalActivities++
	if category != "" {
		p.categories[category]++
	}
	if level != "" {
		p.levels[level]++
	}
	if ts.After(p.lastActive) {
		p.lastActive = ts
	}
}

// RecordSync updates the user's sync statistics: increments the sync count,
// folds the interval since the previous sync into the running average as a
// two-point average (newAvg = (currentAvg + sinceLast) / 2, only when a
// previous sync exists), and sets the last-sync timestamp.
//
// Returns false without side effects when the user has no profile; sync
// statistics only accrue to users the engine has already seen.
func (s *ProfileStore) RecordSync(userID string, ts time.Time) bool {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	p, ok := sh.profiles[userID]
	if !ok {
		return false
	}
	p.syncCount++
	if !p.lastSync.IsZero() {
		sinceLast := ts.Sub(p.lastSync)
		p.avgSyncInterval = (p.avgSyncInterval + sinceLast) / 2
	}
	p.lastSync = ts
	return true
}

// Snapshot returns a deep copy of the user's profile, and false when the user
// is unknown.
func (s *ProfileStore) Snapshot(userID string) (ProfileSnapshot, bool) {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	p, ok := sh.profiles[userID]
	if !ok {
		return ProfileSnapshot{}, false
	}
	return p.snapshotLocked(), true
}

// SnapshotAll returns deep copies of every profile. The result is a
// consistent-enough view for analytics: each profile is copied atomically,
// but profiles copied from different shards may interleave with concurrent
// ingestion.
func (s *ProfileStore) SnapshotAll() []ProfileSnapshot {
	var out []ProfileSnapshot
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		for _, p := range sh.profiles {
			out = append(out, p.snapshotLocked())
		}
		sh.mu.RUnlock()
	}
	return out
}

// Len returns the number of profiles.
func (s *ProfileStore) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.profiles)
		sh.mu.RUnlock()
	}
	return n
}

func (p *profile) snapshotLocked() ProfileSnapshot {
	snap := ProfileSnapshot{
		UserID:          p.userID,
		UserName:        p.userName,
		Hourly:          p.hourly,
		Categories:      make(map[string]int, len(p.categories)),
		Levels:          make(map[string]int, len(p.levels)),
		TotalActivities: p.totalActivities,
		LastActive:      p.lastActive,
		SyncCount:       p.syncCount,
		LastSync:        p.lastSync,
		AvgSyncInterval: p.avgSyncInterval,
	}
	for k, v := range p.categories {
		snap.Categories[k] = v
	}
	for k, v := range p.levels {
		snap.Levels[k] = v
	}
	return snap
}
