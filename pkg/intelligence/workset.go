package intelligence

import (
	"fmt"
	"sort"
	"time"

	"github.com/bimcollab/collabintel-go/pkg/store"
)

// Workset optimization parameters.
const (
	// groupingMinAccesses is the exclusive retained-access count an element
	// needs before it participates in dominant-editor grouping.
	groupingMinAccesses = 10

	// sharedContentionThreshold is the contention level above which an
	// element is proposed for a shared workset instead of single ownership.
	sharedContentionThreshold = 0.6

	// reductionFactor scales average contention into an expected conflict
	// reduction.
	reductionFactor = 0.7

	// maxReduction caps the expected conflict reduction estimate.
	maxReduction = 0.8
)

// WorksetAdvisor derives workset reorganization suggestions from element
// access patterns.
//
// Heavily edited elements are grouped by their dominant editor (the user with
// the most editing accesses); each group becomes a per-user workset proposal
// with an expected conflict reduction derived from the group's average
// contention. Elements too contested for any single owner are collected into a
// shared-workset candidate set instead.
type WorksetAdvisor struct{}

// NewWorksetAdvisor creates a WorksetAdvisor.
func NewWorksetAdvisor() *WorksetAdvisor {
	return &WorksetAdvisor{}
}

// Recommend computes the workset optimization plan over all element patterns.
//
// Parameters:
//   - patterns: snapshots of every known element pattern
//   - now: evaluation time for the contention windows
//
// Returns a WorksetPlan; all slices are empty when no element qualifies.
func (w *WorksetAdvisor) Recommend(patterns []store.PatternSnapshot, now time.Time) WorksetPlan {
	groups := make(map[string][]store.PatternSnapshot)
	for _, p := range patterns {
		if len(p.Accesses) <= groupingMinAccesses {
			continue
		}
		dominant, ok := DominantEditor(p.Accesses)
		if !ok {
			continue
		}
		groups[dominant] = append(groups[dominant], p)
	}

	users := make([]string, 0, len(groups))
	for u := range groups {
		users = append(users, u)
	}
	sort.Strings(users)

	var suggestions []WorksetSuggestion
	for _, u := range users {
		group := groups[u]
		elementIDs := make([]string, len(group))
		totalContention := 0.0
		for i, p := range group {
			elementIDs[i] = p.ElementID
			totalContention += ContentionLevel(p.Accesses, now)
		}
		avgContention := totalContention / float64(len(group))
		reduction := avgContention * reductionFactor
		if reduction > maxReduction {
			reduction = maxReduction
		}
		suggestions = append(suggestions, WorksetSuggestion{
			UserID:                    u,
			WorksetName:               fmt.Sprintf("Workset_%s", u),
			ElementIDs:                elementIDs,
			ExpectedConflictReduction: reduction,
			Rationale: fmt.Sprintf("%s is the dominant editor of %d heavily edited elements; a dedicated workset gives them exclusive ownership",
				u, len(group)),
		})
	}

	var shared []string
	for _, p := range patterns {
		if ContentionLevel(p.Accesses, now) > sharedContentionThreshold {
			shared = append(shared, p.ElementID)
		}
	}
	plan := WorksetPlan{Suggestions: suggestions, SharedElements: shared}
	if len(shared) > 0 {
		plan.SharedNote = fmt.Sprintf("%d elements are edited by many users; keep them in a shared workset with explicit checkout coordination", len(shared))
	}
	return plan
}

// DominantEditor returns the user with the most editing-kind accesses in the
// history. Ties resolve to the user first encountered; a history with no
// editing accesses has no dominant editor and returns false.
func DominantEditor(accesses []store.Access) (string, bool) {
	counts := make(map[string]int)
	var order []string
	for _, a := range accesses {
		if a.Kind != store.AccessKindEdit {
			continue
		}
		if counts[a.UserID] == 0 {
			order = append(order, a.UserID)
		}
		counts[a.UserID]++
	}
	best, bestCount := "", 0
	for _, u := range order {
		if counts[u] > bestCount {
			best, bestCount = u, counts[u]
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
