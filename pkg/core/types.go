// Package core provides the collaboration intelligence engine and its public
// API surface.
package core

import "time"

// ActivityKind classifies what a user did to an element.
type ActivityKind string

const (
	// ActivityView is a read-only inspection of an element.
	ActivityView ActivityKind = "view"

	// ActivityEdit is a modification of an existing element. Dominant-editor
	// and workset calculations count only this kind.
	ActivityEdit ActivityKind = "edit"

	// ActivityCreate is the creation of a new element.
	ActivityCreate ActivityKind = "create"

	// ActivityDelete is the deletion of an element.
	ActivityDelete ActivityKind = "delete"

	// ActivityModify is a parameter-level change to an element.
	ActivityModify ActivityKind = "modify"
)

// ElementActivity is one user action on one model element, as reported by the
// host application.
//
// UserID and ElementID are required; Level is optional (activities on
// elements without a level are accepted).
//
// Example:
//
//	engine.RecordActivity(core.ElementActivity{
//	    UserID:      "user_001",
//	    UserName:    "Alice",
//	    ElementID:   "wall_42",
//	    ElementName: "Exterior Wall 42",
//	    Category:    "Walls",
//	    Level:       "Level 1",
//	    Kind:        core.ActivityEdit,
//	    Timestamp:   time.Now(),
//	})
type ElementActivity struct {
	// UserID identifies the acting user. Opaque to the engine.
	UserID string `json:"user_id" validate:"required"`

	// UserName is the user's display name (optional).
	UserName string `json:"user_name,omitempty"`

	// ElementID identifies the element. Opaque to the engine.
	ElementID string `json:"element_id" validate:"required"`

	// ElementName is the element's display name (optional).
	ElementName string `json:"element_name,omitempty"`

	// Category is the element's category (e.g. "Walls").
	Category string `json:"category,omitempty"`

	// Level is the level/floor the element belongs to (optional).
	Level string `json:"level,omitempty"`

	// Kind is the activity kind.
	Kind ActivityKind `json:"kind"`

	// Timestamp is when the activity happened. A zero value is replaced with
	// the engine clock at ingestion.
	Timestamp time.Time `json:"timestamp"`
}

// ConflictRecord reports one editing conflict between two users on an element.
type ConflictRecord struct {
	// ElementID identifies the contested element.
	ElementID string `json:"element_id" validate:"required"`

	// FirstUserID and SecondUserID identify the two users involved. The pair
	// is treated as unordered everywhere.
	FirstUserID  string `json:"first_user_id" validate:"required"`
	SecondUserID string `json:"second_user_id" validate:"required"`

	// Timestamp is when the conflict happened. A zero value is replaced with
	// the engine clock at ingestion.
	Timestamp time.Time `json:"timestamp"`

	// Resolution is a free-form note on how the conflict was resolved.
	Resolution string `json:"resolution,omitempty"`

	// Resolved reports whether the conflict was resolved.
	Resolved bool `json:"resolved"`
}

// SyncRecord reports one sync-with-central operation by a user.
type SyncRecord struct {
	// UserID identifies the syncing user.
	UserID string `json:"user_id" validate:"required"`

	// Timestamp is when the sync happened. A zero value is replaced with the
	// engine clock at ingestion.
	Timestamp time.Time `json:"timestamp"`

	// ElementsModified is the number of elements published by the sync.
	ElementsModified int `json:"elements_modified" validate:"gte=0"`

	// ConflictsEncountered is the number of conflicts hit during the sync.
	ConflictsEncountered int `json:"conflicts_encountered" validate:"gte=0"`

	// Duration is how long the sync took.
	Duration time.Duration `json:"duration" validate:"gte=0"`
}

// UserWorkingPreferences is the derived read model of one user's working
// habits. Unknown users yield the zero value with the user ID filled in.
type UserWorkingPreferences struct {
	// UserID identifies the user.
	UserID string `json:"user_id"`

	// UserName is the user's display name, when known.
	UserName string `json:"user_name,omitempty"`

	// HourlyActivity is a copy of the all-time hour-of-day histogram.
	HourlyActivity [24]int `json:"hourly_activity"`

	// PreferredHours are the hours of day the user is clearly active in,
	// most active first.
	PreferredHours []int `json:"preferred_hours,omitempty"`

	// TopCategories are the user's most-worked categories, most active first.
	TopCategories []string `json:"top_categories,omitempty"`

	// TopLevels are the user's most-worked levels, most active first.
	TopLevels []string `json:"top_levels,omitempty"`

	// TotalActivities is the user's all-time activity count.
	TotalActivities int `json:"total_activities"`

	// SyncCount is the number of syncs recorded for the user.
	SyncCount int `json:"sync_count"`

	// AverageSyncInterval is the running average interval between syncs.
	AverageSyncInterval time.Duration `json:"average_sync_interval"`

	// LastActiveAt is the timestamp of the user's most recent activity.
	LastActiveAt time.Time `json:"last_active_at"`

	// LastSyncAt is the timestamp of the user's most recent sync.
	LastSyncAt time.Time `json:"last_sync_at"`
}

// ConflictSeverity classifies a predicted conflict.
type ConflictSeverity string

const (
	// SeverityLow indicates a minor predicted conflict.
	SeverityLow ConflictSeverity = "low"

	// SeverityMedium indicates a predicted conflict worth watching.
	SeverityMedium ConflictSeverity = "medium"

	// SeverityHigh indicates a predicted conflict that needs coordination.
	SeverityHigh ConflictSeverity = "high"

	// SeverityCritical indicates an imminent, high-impact predicted conflict.
	SeverityCritical ConflictSeverity = "critical"
)

// ConflictPrediction is one predicted conflict between the querying user and
// another user on a specific element.
type ConflictPrediction struct {
	// ID is the generated identifier of the prediction.
	ID string `json:"id"`

	// ElementID identifies the element the conflict is predicted on.
	ElementID string `json:"element_id"`

	// ElementName is the element's display name, when known.
	ElementName string `json:"element_name,omitempty"`

	// UserID is the querying user.
	UserID string `json:"user_id"`

	// OtherUserID is the user the conflict is predicted with.
	OtherUserID string `json:"other_user_id"`

	// Probability is the combined conflict probability in [0, 1].
	Probability float64 `json:"probability"`

	// Severity is the bucketed severity.
	Severity ConflictSeverity `json:"severity"`

	// PredictedAt is the next moment both users are historically active
	// enough to collide, nil when no such hour exists.
	PredictedAt *time.Time `json:"predicted_at,omitempty"`

	// Factors explain which signals drove the probability.
	Factors []string `json:"factors,omitempty"`

	// Recommendations are mitigation suggestions matching the factors.
	Recommendations []string `json:"recommendations,omitempty"`

	// GeneratedAt is when the prediction was computed.
	GeneratedAt time.Time `json:"generated_at"`
}

// WorksetSuggestion proposes a per-user working area.
type WorksetSuggestion struct {
	// UserID is the dominant editor the workset is proposed for.
	UserID string `json:"user_id"`

	// WorksetName is the proposed workset name.
	WorksetName string `json:"workset_name"`

	// ElementIDs lists the elements to move into the workset.
	ElementIDs []string `json:"element_ids"`

	// ExpectedConflictReduction estimates the conflict reduction in [0, 0.8].
	ExpectedConflictReduction float64 `json:"expected_conflict_reduction"`

	// Rationale explains the suggestion.
	Rationale string `json:"rationale"`
}

// WorksetRecommendation is the full workset optimization recommendation.
type WorksetRecommendation struct {
	// ID is the generated identifier of the recommendation.
	ID string `json:"id"`

	// GeneratedAt is when the recommendation was computed.
	GeneratedAt time.Time `json:"generated_at"`

	// Suggestions holds one per-user workset suggestion per dominant editor.
	Suggestions []WorksetSuggestion `json:"suggestions,omitempty"`

	// SharedElements lists elements too contested for single ownership.
	SharedElements []string `json:"shared_elements,omitempty"`

	// SharedNote explains the shared-workset candidate set.
	SharedNote string `json:"shared_note,omitempty"`
}

// SyncUrgency classifies how pressing a sync recommendation is.
type SyncUrgency string

const (
	// SyncUrgencyLow means a relaxed cadence is fine.
	SyncUrgencyLow SyncUrgency = "low"

	// SyncUrgencyMedium means a regular cadence should be kept.
	SyncUrgencyMedium SyncUrgency = "medium"

	// SyncUrgencyHigh means the user should sync frequently.
	SyncUrgencyHigh SyncUrgency = "high"
)

// SyncTimingRecommendation is the sync cadence recommendation for one user.
type SyncTimingRecommendation struct {
	// UserID identifies the user the recommendation is for.
	UserID string `json:"user_id"`

	// FrequencyMinutes is the recommended minutes between syncs.
	FrequencyMinutes int `json:"frequency_minutes"`

	// OptimalHours are the hours of day with the lowest aggregate team
	// activity, in ascending hour order.
	OptimalHours []int `json:"optimal_hours,omitempty"`

	// Urgency classifies how pressing syncing currently is.
	Urgency SyncUrgency `json:"urgency"`

	// Rationale explains the recommendation.
	Rationale string `json:"rationale"`
}

// CollaborationPair scores how often two users touch the same elements.
type CollaborationPair struct {
	// FirstUserID and SecondUserID identify the pair; FirstUserID sorts
	// before SecondUserID so the pair is order-independent.
	FirstUserID  string `json:"first_user_id"`
	SecondUserID string `json:"second_user_id"`

	// SharedAccessCount is the number of elements both users accessed.
	SharedAccessCount int `json:"shared_access_count"`

	// Score is the count normalized to the highest pair count observed.
	Score float64 `json:"score"`

	// Strong marks pairs with a score above the strong-collaboration
	// threshold.
	Strong bool `json:"strong"`
}

// FrictionPoint reports a user pair with recurring conflicts.
type FrictionPoint struct {
	// FirstUserID and SecondUserID identify the pair, order-independent.
	FirstUserID  string `json:"first_user_id"`
	SecondUserID string `json:"second_user_id"`

	// ConflictCount is the number of retained conflicts for the pair.
	ConflictCount int `json:"conflict_count"`

	// LastConflict is the most recent conflict timestamp for the pair.
	LastConflict time.Time `json:"last_conflict"`

	// ElementIDs lists the distinct elements the pair conflicted on.
	ElementIDs []string `json:"element_ids,omitempty"`
}

// WorkloadEntry summarizes one user's share of the team's activity.
type WorkloadEntry struct {
	// UserID identifies the user.
	UserID string `json:"user_id"`

	// UserName is the user's display name, when known.
	UserName string `json:"user_name,omitempty"`

	// TotalActivities is the user's all-time activity count.
	TotalActivities int `json:"total_activities"`

	// ActiveDaysEstimate is a coarse proxy for weekly active days derived
	// from histogram spread, not a calendar count.
	ActiveDaysEstimate int `json:"active_days_estimate"`

	// TopCategories are the user's top categories by activity count.
	TopCategories []string `json:"top_categories,omitempty"`
}

// KnowledgeSilo reports a cluster of elements only one user ever touched.
type KnowledgeSilo struct {
	// UserID is the sole user with knowledge of the elements.
	UserID string `json:"user_id"`

	// ExclusiveElementCount is the number of exclusively accessed elements.
	ExclusiveElementCount int `json:"exclusive_element_count"`

	// Categories lists the silo's categories, most frequent first.
	Categories []string `json:"categories,omitempty"`

	// Risk is "High" for large silos, otherwise "Medium".
	Risk string `json:"risk"`
}

// TeamDynamicsReport is the full team dynamics report.
type TeamDynamicsReport struct {
	// ID is the generated identifier of the report.
	ID string `json:"id"`

	// GeneratedAt is when the report was computed.
	GeneratedAt time.Time `json:"generated_at"`

	// CollaborationPairs are the top collaboration pairs by score.
	CollaborationPairs []CollaborationPair `json:"collaboration_pairs,omitempty"`

	// FrictionPoints are the user pairs with recurring conflicts.
	FrictionPoints []FrictionPoint `json:"friction_points,omitempty"`

	// Workload is the per-user workload distribution, busiest first.
	Workload []WorkloadEntry `json:"workload,omitempty"`

	// KnowledgeSilos are the detected knowledge silos.
	KnowledgeSilos []KnowledgeSilo `json:"knowledge_silos,omitempty"`

	// Recommendations are narrative suggestions derived from the sections
	// above.
	Recommendations []string `json:"recommendations,omitempty"`
}

// EngineStats exposes coarse engine counters for host-side inspection.
type EngineStats struct {
	// Profiles is the number of user profiles.
	Profiles int `json:"profiles"`

	// Patterns is the number of element access patterns.
	Patterns int `json:"patterns"`

	// ConflictEntries is the number of retained conflict ledger entries.
	ConflictEntries int `json:"conflict_entries"`

	// SyncEntries is the number of retained sync ledger entries.
	SyncEntries int `json:"sync_entries"`

	// Faults is the number of ingestion records rejected by validation.
	Faults uint64 `json:"faults"`
}
