// Package core provides the collaboration intelligence engine and its public
// API surface.
package core

import (
	"sort"
	"time"

	"github.com/bimcollab/collabintel-go/pkg/intelligence"
	"github.com/bimcollab/collabintel-go/pkg/store"
)

// preferredHourThreshold is the histogram count a slot needs before the hour
// counts as a preferred working hour.
const preferredHourThreshold = 5

// maxPreferenceEntries caps the top-category and top-level lists in the
// preference view.
const maxPreferenceEntries = 5

// accessKind converts a public ActivityKind to the store-level kind string.
//
// This function is used internally to convert between package types to avoid
// circular dependencies.
func accessKind(k ActivityKind) string {
	switch k {
	case ActivityEdit:
		return store.AccessKindEdit
	case ActivityCreate:
		return store.AccessKindCreate
	case ActivityDelete:
		return store.AccessKindDelete
	case ActivityModify:
		return store.AccessKindModify
	default:
		return store.AccessKindView
	}
}

// fromIntelligencePrediction converts an intelligence.Prediction to the
// public ConflictPrediction.
func fromIntelligencePrediction(p intelligence.Prediction, id string, generatedAt time.Time) ConflictPrediction {
	return ConflictPrediction{
		ID:              id,
		ElementID:       p.ElementID,
		ElementName:     p.ElementName,
		UserID:          p.UserID,
		OtherUserID:     p.OtherUserID,
		Probability:     p.Probability,
		Severity:        ConflictSeverity(p.Severity),
		PredictedAt:     p.PredictedAt,
		Factors:         p.Factors,
		Recommendations: p.Recommendations,
		GeneratedAt:     generatedAt,
	}
}

// fromIntelligencePlan converts an intelligence.WorksetPlan to the public
// WorksetRecommendation.
func fromIntelligencePlan(plan intelligence.WorksetPlan, id string, generatedAt time.Time) WorksetRecommendation {
	rec := WorksetRecommendation{
		ID:             id,
		GeneratedAt:    generatedAt,
		SharedElements: plan.SharedElements,
		SharedNote:     plan.SharedNote,
	}
	for _, s := range plan.Suggestions {
		rec.Suggestions = append(rec.Suggestions, WorksetSuggestion{
			UserID:                    s.UserID,
			WorksetName:               s.WorksetName,
			ElementIDs:                s.ElementIDs,
			ExpectedConflictReduction: s.ExpectedConflictReduction,
			Rationale:                 s.Rationale,
		})
	}
	return rec
}

// fromIntelligenceTiming converts an intelligence.SyncTiming to the public
// SyncTimingRecommendation.
func fromIntelligenceTiming(t intelligence.SyncTiming, userID string) SyncTimingRecommendation {
	return SyncTimingRecommendation{
		UserID:           userID,
		FrequencyMinutes: t.FrequencyMinutes,
		OptimalHours:     t.OptimalHours,
		Urgency:          SyncUrgency(t.Urgency),
		Rationale:        t.Rationale,
	}
}

// fromIntelligenceReport converts an intelligence.TeamReport to the public
// TeamDynamicsReport.
func fromIntelligenceReport(r intelligence.TeamReport, id string, generatedAt time.Time) TeamDynamicsReport {
	report := TeamDynamicsReport{
		ID:              id,
		GeneratedAt:     generatedAt,
		Recommendations: r.Recommendations,
	}
	for _, p := range r.Pairs {
		report.CollaborationPairs = append(report.CollaborationPairs, CollaborationPair{
			FirstUserID:       p.FirstUserID,
			SecondUserID:      p.SecondUserID,
			SharedAccessCount: p.SharedAccessCount,
			Score:             p.Score,
			Strong:            p.Strong,
		})
	}
	for _, f := range r.Friction {
		report.FrictionPoints = append(report.FrictionPoints, FrictionPoint{
			FirstUserID:   f.FirstUserID,
			SecondUserID:  f.SecondUserID,
			ConflictCount: f.ConflictCount,
			LastConflict:  f.LastConflict,
			ElementIDs:    f.ElementIDs,
		})
	}
	for _, w := range r.Workload {
		report.Workload = append(report.Workload, WorkloadEntry{
			UserID:             w.UserID,
			UserName:           w.UserName,
			TotalActivities:    w.TotalActivities,
			ActiveDaysEstimate: w.ActiveDaysEstimate,
			TopCategories:      w.TopCategories,
		})
	}
	for _, s := range r.Silos {
		report.KnowledgeSilos = append(report.KnowledgeSilos, KnowledgeSilo{
			UserID:                s.UserID,
			ExclusiveElementCount: s.ExclusiveElementCount,
			Categories:            s.Categories,
			Risk:                  s.Risk,
		})
	}
	return report
}

// preferencesFromProfile derives the public preference view from a profile
// snapshot.
func preferencesFromProfile(p store.ProfileSnapshot) UserWorkingPreferences {
	prefs := UserWorkingPreferences{
		UserID:              p.UserID,
		UserName:            p.UserName,
		HourlyActivity:      p.Hourly,
		TopCategories:       topCounted(p.Categories, maxPreferenceEntries),
		TopLevels:           topCounted(p.Levels, maxPreferenceEntries),
		TotalActivities:     p.TotalActivities,
		SyncCount:           p.SyncCount,
		AverageSyncInterval: p.AvgSyncInterval,
		LastActiveAt:        p.LastActive,
		LastSyncAt:          p.LastSync,
	}
	for hour := 0; hour < 24; hour++ {
		if p.Hourly[hour] > preferredHourThreshold {
			prefs.PreferredHours = append(prefs.PreferredHours, hour)
		}
	}
	sort.SliceStable(prefs.PreferredHours, func(i, j int) bool {
		return p.Hourly[prefs.PreferredHours[i]] > p.Hourly[prefs.PreferredHours[j]]
	})
	return prefs
}

// topCounted returns up to n keys of the counter map, ordered by count
// descending with name ties ascending.
func topCounted(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
