// Package intelligence provides the deterministic analytics over store
// snapshots: conflict prediction, workset optimization, sync timing, and team
// dynamics reporting.
//
// Every analyzer is a pure computation over immutable snapshots taken from the
// stores; nothing in this package mutates shared state. All weights, windows,
// and thresholds are named constants so each factor is unit-testable on its own.
package intelligence

import "time"

// Severity classifies a predicted conflict.
type Severity string

const (
	// SeverityLow indicates a minor predicted conflict.
	SeverityLow Severity = "low"

	// SeverityMedium indicates a predicted conflict worth watching.
	SeverityMedium Severity = "medium"

	// SeverityHigh indicates a predicted conflict that needs coordination.
	SeverityHigh Severity = "high"

	// SeverityCritical indicates an imminent, high-impact predicted conflict.
	SeverityCritical Severity = "critical"
)

// Rank returns the numeric rank of the severity, Low=0 through Critical=3.
// Result ordering multiplies probability by this rank.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// Urgency classifies how pressing a sync recommendation is.
type Urgency string

const (
	// UrgencyLow means a relaxed cadence is fine.
	UrgencyLow Urgency = "low"

	// UrgencyMedium means a regular cadence should be kept.
	UrgencyMedium Urgency = "medium"

	// UrgencyHigh means the user should sync frequently.
	UrgencyHigh Urgency = "high"
)

// Prediction is one predicted conflict between the querying user and another
// user on a specific element.
type Prediction struct {
	// ElementID identifies the element the conflict is predicted on.
	ElementID string

	// ElementName is the element's display name, when known.
	ElementName string

	// UserID is the querying user.
	UserID string

	// OtherUserID is the user the conflict is predicted with.
	OtherUserID string

	// Probability is the combined conflict probability in [0, 1].
	Probability float64

	// Severity is the bucketed severity derived from probability and the
	// element category weight.
	Severity Severity

	// PredictedAt is the next moment both users are historically active
	// enough to collide, nil when no such hour exists.
	PredictedAt *time.Time

	// Factors are human-readable explanations of the signals that drove the
	// probability.
	Factors []string

	// Recommendations are mitigation suggestions matching the factors.
	Recommendations []string
}

// WorksetSuggestion proposes a per-user working area.
type WorksetSuggestion struct {
	// UserID is the dominant editor the workset is proposed for.
	UserID string

	// WorksetName is the proposed workset name.
	WorksetName string

	// ElementIDs lists the elements to move into the workset.
	ElementIDs []string

	// ExpectedConflictReduction estimates the conflict reduction in [0, 0.8].
	ExpectedConflictReduction float64

	// Rationale explains the suggestion.
	Rationale string
}

// WorksetPlan is the full workset optimization recommendation.
type WorksetPlan struct {
	// Suggestions holds one per-user workset suggestion per dominant editor.
	Suggestions []WorksetSuggestion

	// SharedElements lists elements too contested for single ownership.
	SharedElements []string

	// SharedNote explains the shared-workset candidate set, empty when no
	// element qualifies.
	SharedNote string
}

// SyncTiming is the sync cadence recommendation for one user.
type SyncTiming struct {
	// FrequencyMinutes is the recommended minutes between syncs.
	FrequencyMinutes int

	// OptimalHours are the 4 hours of day with the lowest aggregate team
	// activity, in ascending hour order.
	OptimalHours []int

	// Urgency classifies how pressing syncing currently is.
	Urgency Urgency

	// Rationale explains the recommendation.
	Rationale string
}

// CollaborationPair scores how often two users touch the same elements.
type CollaborationPair struct {
	// FirstUserID and SecondUserID identify the pair; FirstUserID sorts
	// before SecondUserID so the pair is order-independent.
	FirstUserID  string
	SecondUserID string

	// SharedAccessCount is the number of elements both users accessed.
	SharedAccessCount int

	// Score is the count normalized to the highest pair count observed.
	Score float64

	// Strong marks pairs with Score above the strong-collaboration threshold.
	Strong bool
}

// FrictionPoint reports a user pair with recurring conflicts.
type FrictionPoint struct {
	// FirstUserID and SecondUserID identify the pair, order-independent.
	FirstUserID  string
	SecondUserID string

	// ConflictCount is the number of ledger entries for the pair within the
	// retained history.
	ConflictCount int

	// LastConflict is the most recent conflict timestamp for the pair.
	LastConflict time.Time

	// ElementIDs lists the distinct elements the pair conflicted on.
	ElementIDs []string
}

// WorkloadEntry summarizes one user's share of the team's activity.
type WorkloadEntry struct {
	// UserID identifies the user.
	UserID string

	// UserName is the user's display name, when known.
	UserName string

	// TotalActivities is the user's all-time activity count.
	TotalActivities int

	// ActiveDaysEstimate is a coarse proxy for weekly active days derived
	// from histogram spread, not a calendar count.
	ActiveDaysEstimate int

	// TopCategories are the user's top-3 categories by activity count.
	TopCategories []string
}

// KnowledgeSilo reports a cluster of elements only one user ever touched.
type KnowledgeSilo struct {
	// UserID is the sole user with knowledge of the elements.
	UserID string

	// ExclusiveElementCount is the number of exclusively accessed elements.
	ExclusiveElementCount int

	// Categories lists the distinct categories of those elements, most
	// frequent first.
	Categories []string

	// Risk is "High" above the high-risk element count, otherwise "Medium".
	Risk string
}

// TeamReport is the full team dynamics report.
type TeamReport struct {
	// Pairs are the top collaboration pairs by score.
	Pairs []CollaborationPair

	// Friction are the user pairs with recurring conflicts.
	Friction []FrictionPoint

	// Workload is the per-user workload distribution, busiest first.
	Workload []WorkloadEntry

	// Silos are the detected knowledge silos.
	Silos []KnowledgeSilo

	// Recommendations are narrative suggestions derived from the sections
	// above.
	Recommendations []string
}
