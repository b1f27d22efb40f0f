package intelligence

import (
	"math"
	"strings"
	"time"

	"github.com/bimcollab/collabintel-go/pkg/store"
)

// Signal weights for the conflict probability model. They sum to 1.0, and the
// combined score is clamped to [0, 1] regardless.
const (
	WeightTemporalOverlap    = 0.25
	WeightAccessFrequency    = 0.25
	WeightHistoricalConflict = 0.20
	WeightContention         = 0.15
	WeightRecentIntensity    = 0.15
)

// Rolling windows used by the individual signals. Temporal overlap is the one
// exception: it reads the all-time hourly histograms, because it models when a
// user is active at all rather than what happened recently.
const (
	// CoEditorWindow bounds how far back co-editors of an element are
	// considered recent enough to collide with.
	CoEditorWindow = 8 * time.Hour

	// FrequencyWindow bounds the access-frequency and contention signals.
	FrequencyWindow = 7 * 24 * time.Hour

	// ConflictWindow bounds the historical-conflict signal.
	ConflictWindow = 30 * 24 * time.Hour

	// IntensityWindow bounds the recent-activity-intensity signal.
	IntensityWindow = time.Hour
)

// Normalization caps for the windowed signals.
const (
	// frequencyCap is the combined 7-day access count that saturates the
	// access-frequency signal.
	frequencyCap = 20.0

	// conflictCap is the 30-day pair conflict count that saturates the
	// historical-conflict signal.
	conflictCap = 10.0

	// contentionCap is the 7-day distinct-user count that saturates the
	// contention signal.
	contentionCap = 5.0

	// intensityCap is the 1-hour access count that saturates the
	// recent-intensity signal.
	intensityCap = 10.0
)

// unknownProfileOverlap is the temporal overlap assumed when either user has
// no profile yet.
const unknownProfileOverlap = 0.5

// activeHourThreshold is the histogram count above which an hour counts as an
// active hour for a user (predicted-hour search, preferred hours).
const activeHourThreshold = 5

// quietHourThreshold is the histogram count below which an hour counts as
// quiet for a user (used when suggesting an uncontested working hour).
const quietHourThreshold = 2

// TemporalOverlap returns the fraction of the 24 hourly slots in which both
// histograms are non-zero. Either histogram being nil (unknown profile) yields
// the fixed default of 0.5.
func TemporalOverlap(a, b *[24]int) float64 {
	if a == nil || b == nil {
		return unknownProfileOverlap
	}
	overlap := 0
	for h := 0; h < 24; h++ {
		if a[h] > 0 && b[h] > 0 {
			overlap++
		}
	}
	return float64(overlap) / 24.0
}

// AccessFrequency returns min(1, combined 7-day access count of both users on
// the element / 20).
func AccessFrequency(accesses []store.Access, firstUser, secondUser string, now time.Time) float64 {
	cutoff := now.Add(-FrequencyWindow)
	count := 0
	for _, a := range accesses {
		if a.Timestamp.Before(cutoff) {
			continue
		}
		if a.UserID == firstUser || a.UserID == secondUser {
			count++
		}
	}
	return math.Min(1.0, float64(count)/frequencyCap)
}

// HistoricalConflictRate returns min(1, 30-day conflict count for the
// unordered user pair / 10).
func HistoricalConflictRate(conflicts []store.ConflictEntry, firstUser, secondUser string, now time.Time) float64 {
	cutoff := now.Add(-ConflictWindow)
	count := 0
	for _, c := range conflicts {
		if c.Timestamp.Before(cutoff) {
			continue
		}
		if c.InvolvesPair(firstUser, secondUser) {
			count++
		}
	}
	return math.Min(1.0, float64(count)/conflictCap)
}

// ContentionLevel returns min(1, distinct users touching the element in the
// last 7 days / 5). It proxies collision risk for the element itself.
func ContentionLevel(accesses []store.Access, now time.Time) float64 {
	cutoff := now.Add(-FrequencyWindow)
	users := make(map[string]struct{})
	for _, a := range accesses {
		if a.Timestamp.Before(cutoff) {
			continue
		}
		users[a.UserID] = struct{}{}
	}
	return math.Min(1.0, float64(len(users))/contentionCap)
}

// RecentIntensity returns min(1, accesses to the element in the last hour / 10).
func RecentIntensity(accesses []store.Access, now time.Time) float64 {
	cutoff := now.Add(-IntensityWindow)
	count := 0
	for _, a := range accesses {
		if !a.Timestamp.Before(cutoff) {
			count++
		}
	}
	return math.Min(1.0, float64(count)/intensityCap)
}

// categoryWeights maps element category substrings to severity multipliers.
// The table is evaluated top-down against the lowercased category; the first
// match wins, so more specific substrings come first.
var categoryWeights = []struct {
	substr string
	weight float64
}{
	{"structural column", 1.5},
	{"structural foundation", 1.5},
	{"structural framing", 1.4},
	{"mechanical equipment", 1.3},
	{"electrical equipment", 1.3},
	{"plumbing fixture", 1.2},
	{"wall", 1.1},
}

// CategoryWeight returns the severity multiplier for an element category.
// Unlisted categories weigh 1.0.
func CategoryWeight(category string) float64 {
	lower := strings.ToLower(category)
	for _, cw := range categoryWeights {
		if strings.Contains(lower, cw.substr) {
			return cw.weight
		}
	}
	return 1.0
}

// severityBuckets maps weighted severity scores to severity labels. The table
// is evaluated top-down; lower bounds are inclusive.
var severityBuckets = []struct {
	threshold float64
	severity  Severity
}{
	{0.9, SeverityCritical},
	{0.75, SeverityHigh},
	{0.5, SeverityMedium},
}

// SeverityFor buckets a weighted severity score (probability x category
// weight) into a severity label.
func SeverityFor(score float64) Severity {
	for _, b := range severityBuckets {
		if score >= b.threshold {
			return b.severity
		}
	}
	return SeverityLow
}

// clamp01 bounds v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
