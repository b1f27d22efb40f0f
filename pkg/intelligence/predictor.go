package intelligence

import (
	"fmt"
	"sort"
	"time"

	"github.com/bimcollab/collabintel-go/pkg/store"
)

// DefaultPredictionThreshold is the probability a candidate must exceed to be
// reported at all.
const DefaultPredictionThreshold = 0.7

// minRecentAccesses is how many accesses within CoEditorWindow another user
// needs on an element before they count as a conflict candidate.
const minRecentAccesses = 2

// Explanation sub-thresholds: a signal above its sub-threshold contributes a
// factor string and a matching recommendation.
const (
	explainOverlapThreshold    = 0.5
	explainConflictThreshold   = 0.3
	explainContentionThreshold = 0.5
	explainIntensityThreshold  = 0.5
)

// Predictor computes conflict predictions from store snapshots.
//
// The model is a weighted sum of five normalized signals (temporal overlap,
// access frequency, historical conflict rate, contention, recent intensity),
// clamped to [0, 1]. Candidates below the threshold are discarded; survivors
// get a severity bucket, an optional predicted time, and explanations.
//
// Example:
//
//	predictor := intelligence.NewPredictor(0.7)
//	predictions := predictor.Predict("user_001", patterns, profiles, conflicts, time.Now())
type Predictor struct {
	// threshold is the minimum exclusive probability for a reported prediction.
	threshold float64
}

// NewPredictor creates a Predictor with the given probability threshold.
//
// A non-positive threshold falls back to DefaultPredictionThreshold.
func NewPredictor(threshold float64) *Predictor {
	if threshold <= 0 {
		threshold = DefaultPredictionThreshold
	}
	return &Predictor{threshold: threshold}
}

// Predict computes ranked conflict predictions for userID over the given
// element patterns.
//
// Parameters:
//   - userID: the querying user
//   - patterns: snapshots of the elements the user is actively working on
//   - profiles: all known user profiles, keyed by user ID
//   - conflicts: snapshot of the conflict ledger
//   - now: evaluation time for every rolling window
//
// Returns predictions ordered by probability x severity rank, descending.
func (p *Predictor) Predict(
	userID string,
	patterns []store.PatternSnapshot,
	profiles map[string]store.ProfileSnapshot,
	conflicts []store.ConflictEntry,
	now time.Time,
) []Prediction {
	var predictions []Prediction

	for _, pattern := range patterns {
		for _, other := range recentCoEditors(pattern.Accesses, userID, now) {
			pred, ok := p.scorePair(userID, other, pattern, profiles, conflicts, now)
			if ok {
				predictions = append(predictions, pred)
			}
		}
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Probability*float64(predictions[i].Severity.Rank()) >
			predictions[j].Probability*float64(predictions[j].Severity.Rank())
	})
	return predictions
}

// recentCoEditors returns the distinct users other than userID with at least
// minRecentAccesses accesses inside CoEditorWindow, in order of first
// appearance in the history.
func recentCoEditors(accesses []store.Access, userID string, now time.Time) []string {
	cutoff := now.Add(-CoEditorWindow)
	counts := make(map[string]int)
	var order []string
	for _, a := range accesses {
		if a.UserID == userID || a.Timestamp.Before(cutoff) {
			continue
		}
		if counts[a.UserID] == 0 {
			order = append(order, a.UserID)
		}
		counts[a.UserID]++
	}
	var out []string
	for _, u := range order {
		if counts[u] >= minRecentAccesses {
			out = append(out, u)
		}
	}
	return out
}

// scorePair evaluates one (element, other user) candidate. The boolean is
// false when the combined probability does not exceed the threshold.
func (p *Predictor) scorePair(
	userID, otherID string,
	pattern store.PatternSnapshot,
	profiles map[string]store.ProfileSnapshot,
	conflicts []store.ConflictEntry,
	now time.Time,
) (Prediction, bool) {
	userHist := histogramOf(profiles, userID)
	otherHist := histogramOf(profiles, otherID)

	overlap := TemporalOverlap(userHist, otherHist)
	frequency := AccessFrequency(pattern.Accesses, userID, otherID, now)
	history := HistoricalConflictRate(conflicts, userID, otherID, now)
	contention := ContentionLevel(pattern.Accesses, now)
	intensity := RecentIntensity(pattern.Accesses, now)

	probability := clamp01(
		WeightTemporalOverlap*overlap +
			WeightAccessFrequency*frequency +
			WeightHistoricalConflict*history +
			WeightContention*contention +
			WeightRecentIntensity*intensity,
	)
	if probability <= p.threshold {
		return Prediction{}, false
	}

	severity := SeverityFor(probability * CategoryWeight(pattern.Category))
	factors, recommendations := explain(overlap, history, contention, intensity, userHist, otherHist, otherID)

	return Prediction{
		ElementID:       pattern.ElementID,
		ElementName:     pattern.ElementName,
		UserID:          userID,
		OtherUserID:     otherID,
		Probability:     probability,
		Severity:        severity,
		PredictedAt:     predictConflictTime(userHist, otherHist, now),
		Factors:         factors,
		Recommendations: recommendations,
	}, true
}

// histogramOf returns a pointer to the user's hourly histogram, or nil when
// the user has no profile.
func histogramOf(profiles map[string]store.ProfileSnapshot, userID string) *[24]int {
	p, ok := profiles[userID]
	if !ok {
		return nil
	}
	h := p.Hourly
	return &h
}

// predictConflictTime finds the next hour of day, searching forward from the
// current hour and wrapping at 24, where both users' histograms exceed
// activeHourThreshold. Hours that already passed today land on the next day.
// Returns nil when the histograms never line up, or when either user is
// unknown.
func predictConflictTime(a, b *[24]int, now time.Time) *time.Time {
	if a == nil || b == nil {
		return nil
	}
	for offset := 0; offset < 24; offset++ {
		hour := (now.Hour() + offset) % 24
		if a[hour] > activeHourThreshold && b[hour] > activeHourThreshold {
			day := now
			if hour < now.Hour() {
				day = now.AddDate(0, 0, 1)
			}
			t := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
			return &t
		}
	}
	return nil
}

// explain converts the raw signals into human-readable factors and matching
// mitigation recommendations.
func explain(overlap, history, contention, intensity float64, userHist, otherHist *[24]int, otherID string) ([]string, []string) {
	var factors, recommendations []string

	if overlap > explainOverlapThreshold {
		factors = append(factors, "Overlapping work schedules")
		recommendations = append(recommendations, "Coordinate editing windows to avoid simultaneous changes")
	}
	if history > explainConflictThreshold {
		factors = append(factors, "History of conflicts between these users")
		recommendations = append(recommendations, "Review previous conflict resolutions before editing")
	}
	if contention > explainContentionThreshold {
		factors = append(factors, "High contention on this element")
		recommendations = append(recommendations, "Consider moving this element to a dedicated workset")
	}
	if intensity > explainIntensityThreshold {
		factors = append(factors, "High recent activity on this element")
		recommendations = append(recommendations, "Sync with central before editing this element")
	}
	if hour, ok := quietHourFor(userHist, otherHist); ok {
		recommendations = append(recommendations,
			fmt.Sprintf("Consider working on this element around %02d:00 when %s is less active", hour, otherID))
	}
	return factors, recommendations
}

// quietHourFor finds an hour where the first user is active (histogram above
// activeHourThreshold) and the second is not (below quietHourThreshold).
func quietHourFor(userHist, otherHist *[24]int) (int, bool) {
	if userHist == nil || otherHist == nil {
		return 0, false
	}
	for hour := 0; hour < 24; hour++ {
		if userHist[hour] > activeHourThreshold && otherHist[hour] < quietHourThreshold {
			return hour, true
		}
	}
	return 0, false
}
