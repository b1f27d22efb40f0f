// Package store provides the in-memory leaf stores for the collaboration
// intelligence engine: per-user behavior profiles, per-element access patterns,
// and the globally bounded conflict/sync ledgers.
//
// All stores are safe for concurrent use. Profiles and patterns are lock-striped
// so that updates to unrelated keys do not serialize; the two ledgers each hold
// a single mutex around a bounded FIFO log. Every read-side method returns a
// deep-copied snapshot, so callers can compute over the result without holding
// any store lock.
package store

import "time"

// Access kinds recorded against an element.
//
// Kinds are plain strings at the store level; the public API layer exposes a
// typed enum and converts on ingestion.
const (
	// AccessKindView records a read-only inspection of an element.
	AccessKindView = "view"

	// AccessKindEdit records a modification of an existing element.
	// Dominant-editor calculations count only this kind.
	AccessKindEdit = "edit"

	// AccessKindCreate records creation of a new element.
	AccessKindCreate = "create"

	// AccessKindDelete records deletion of an element.
	AccessKindDelete = "delete"

	// AccessKindModify records a parameter-level change to an element.
	AccessKindModify = "modify"
)

// Access is a single recorded touch of an element by a user.
type Access struct {
	// UserID identifies the user who accessed the element.
	UserID string `json:"user_id"`

	// Timestamp is when the access happened.
	Timestamp time.Time `json:"timestamp"`

	// Kind is the access kind (see AccessKind constants).
	Kind string `json:"kind"`
}

// ProfileSnapshot is a point-in-time copy of a user's behavior profile.
//
// The hourly histogram accumulates over the whole process lifetime and never
// decays; recency filtering happens at query time against raw timestamped
// records, not against the histogram. This is a deliberate modeling choice:
// the histogram answers "when is this user active at all", while the rolling
// windows elsewhere answer "what happened recently".
type ProfileSnapshot struct {
	// UserID identifies the user.
	UserID string `json:"user_id"`

	// UserName is the display name last seen for the user.
	UserName string `json:"user_name"`

	// Hourly is the 24-slot hour-of-day activity histogram.
	// Each slot is monotonically non-decreasing for the process lifetime.
	Hourly [24]int `json:"hourly"`

	// Categories maps element category to activity count.
	Categories map[string]int `json:"categories"`

	// Levels maps level name to activity count.
	Levels map[string]int `json:"levels"`

	// TotalActivities is the total number of recorded activities.
	TotalActivities int `json:"total_activities"`

	// LastActive is the timestamp of the most recent activity.
	LastActive time.Time `json:"last_active"`

	// SyncCount is the number of syncs recorded for the user.
	SyncCount int `json:"sync_count"`

	// LastSync is the timestamp of the most recent sync.
	LastSync time.Time `json:"last_sync"`

	// AvgSyncInterval is the running two-point average interval between syncs.
	AvgSyncInterval time.Duration `json:"avg_sync_interval"`
}

// PatternSnapshot is a point-in-time copy of an element's access pattern.
type PatternSnapshot struct {
	// ElementID identifies the element.
	ElementID string `json:"element_id"`

	// ElementName is the display name last seen for the element.
	ElementName string `json:"element_name"`

	// Category is the element category last seen for the element.
	Category string `json:"category"`

	// Accesses holds the retained accesses in chronological order.
	// Its length never exceeds the store's access history limit.
	Accesses []Access `json:"accesses"`

	// Conflicts is the number of conflicts recorded against the element.
	Conflicts int `json:"conflicts"`
}

// ConflictEntry is a single entry in the global conflict ledger.
type ConflictEntry struct {
	// ID is the generated unique identifier of the entry.
	ID int64 `json:"id"`

	// ElementID identifies the contested element.
	ElementID string `json:"element_id"`

	// FirstUserID and SecondUserID identify the two users involved.
	// Pair-based queries treat the pair as unordered.
	FirstUserID  string `json:"first_user_id"`
	SecondUserID string `json:"second_user_id"`

	// Timestamp is when the conflict happened.
	Timestamp time.Time `json:"timestamp"`

	// Resolution is a free-form note on how the conflict was resolved.
	Resolution string `json:"resolution,omitempty"`

	// Resolved reports whether the conflict was resolved.
	Resolved bool `json:"resolved"`
}

// SyncEntry is a single entry in the global sync ledger.
type SyncEntry struct {
	// UserID identifies the user who synced.
	UserID string `json:"user_id"`

	// Timestamp is when the sync happened.
	Timestamp time.Time `json:"timestamp"`

	// ElementsModified is the number of elements published by the sync.
	ElementsModified int `json:"elements_modified"`

	// ConflictsEncountered is the number of conflicts hit during the sync.
	ConflictsEncountered int `json:"conflicts_encountered"`

	// Duration is how long the sync took.
	Duration time.Duration `json:"duration"`
}

// InvolvesPair reports whether the entry involves exactly the given unordered
// user pair.
func (e ConflictEntry) InvolvesPair(a, b string) bool {
	return (e.FirstUserID == a && e.SecondUserID == b) ||
		(e.FirstUserID == b && e.SecondUserID == a)
}

// InvolvesUser reports whether the entry involves the given user on either side.
func (e ConflictEntry) InvolvesUser(userID string) bool {
	return e.FirstUserID == userID || e.SecondUserID == userID
}
