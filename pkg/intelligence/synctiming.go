package intelligence

import (
	"sort"
	"time"

	"github.com/bimcollab/collabintel-go/pkg/store"
)

// Sync timing parameters.
const (
	// DefaultSyncFrequencyMinutes is recommended when nothing is known about
	// the user.
	DefaultSyncFrequencyMinutes = 30

	// optimalHourCount is how many low-activity hours are recommended.
	optimalHourCount = 4

	// Urgency band thresholds over the team activity level and the number of
	// distinct categories the user works in.
	highActivityLevel    = 0.7
	mediumActivityLevel  = 0.4
	highCategorySpread   = 10
	mediumCategorySpread = 5

	// conflictWindowDays converts the 30-day conflict window into a per-day
	// rate denominator.
	conflictWindowDays = 30.0
)

// syncFrequencyBreakpoints maps daily conflict rates to recommended sync
// cadences. Evaluated top-down; the first matching breakpoint wins.
var syncFrequencyBreakpoints = []struct {
	ratePerDay float64
	minutes    int
}{
	{3, 15},
	{1, 30},
	{0.5, 45},
}

// fallbackSyncFrequencyMinutes applies below every breakpoint.
const fallbackSyncFrequencyMinutes = 60

// SyncAdvisor derives sync cadence and timing recommendations from user
// profiles and the conflict ledger.
type SyncAdvisor struct{}

// NewSyncAdvisor creates a SyncAdvisor.
func NewSyncAdvisor() *SyncAdvisor {
	return &SyncAdvisor{}
}

// Recommend computes the sync timing recommendation for one user.
//
// Parameters:
//   - profile: the user's profile snapshot, nil when the user is unknown
//   - profiles: all known profiles, used for the team activity aggregate
//   - conflicts: snapshot of the conflict ledger
//   - now: evaluation time
//
// Unknown users get the default cadence with a generic rationale; the optimal
// hours are still derived from team activity, since they do not depend on the
// user.
func (s *SyncAdvisor) Recommend(
	profile *store.ProfileSnapshot,
	profiles []store.ProfileSnapshot,
	conflicts []store.ConflictEntry,
	now time.Time,
) SyncTiming {
	aggregate := aggregateHourly(profiles)
	optimal := lowestActivityHours(aggregate, optimalHourCount)

	if profile == nil {
		return SyncTiming{
			FrequencyMinutes: DefaultSyncFrequencyMinutes,
			OptimalHours:     optimal,
			Urgency:          UrgencyLow,
			Rationale:        "No activity history for this user; using the default sync cadence",
		}
	}

	rate := userConflictRate(conflicts, profile.UserID, now)
	minutes := fallbackSyncFrequencyMinutes
	for _, bp := range syncFrequencyBreakpoints {
		if rate > bp.ratePerDay {
			minutes = bp.minutes
			break
		}
	}

	urgency, rationale := classifyUrgency(teamActivityLevel(aggregate, now), len(profile.Categories))
	return SyncTiming{
		FrequencyMinutes: minutes,
		OptimalHours:     optimal,
		Urgency:          urgency,
		Rationale:        rationale,
	}
}

// userConflictRate returns the user's conflicts per day over the last 30 days.
func userConflictRate(conflicts []store.ConflictEntry, userID string, now time.Time) float64 {
	cutoff := now.Add(-ConflictWindow)
	count := 0
	for _, c := range conflicts {
		if c.Timestamp.Before(cutoff) {
			continue
		}
		if c.InvolvesUser(userID) {
			count++
		}
	}
	return float64(count) / conflictWindowDays
}

// aggregateHourly sums every user's histogram into one team histogram.
func aggregateHourly(profiles []store.ProfileSnapshot) [24]int {
	var agg [24]int
	for _, p := range profiles {
		for h := 0; h < 24; h++ {
			agg[h] += p.Hourly[h]
		}
	}
	return agg
}

// lowestActivityHours returns the n hours with the lowest aggregate activity,
// in ascending hour order. Count ties resolve to the earlier hour.
func lowestActivityHours(aggregate [24]int, n int) []int {
	hours := make([]int, 24)
	for h := range hours {
		hours[h] = h
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return aggregate[hours[i]] < aggregate[hours[j]]
	})
	picked := append([]int(nil), hours[:n]...)
	sort.Ints(picked)
	return picked
}

// teamActivityLevel normalizes the current hour's aggregate activity against
// the busiest aggregate hour, yielding [0, 1]. No history yields 0.
func teamActivityLevel(aggregate [24]int, now time.Time) float64 {
	max := 0
	for _, v := range aggregate {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return 0
	}
	return float64(aggregate[now.Hour()]) / float64(max)
}

// classifyUrgency bands the team activity level and the user's category
// spread into an urgency with a fixed rationale.
func classifyUrgency(activity float64, categories int) (Urgency, string) {
	switch {
	case activity > highActivityLevel && categories > highCategorySpread:
		return UrgencyHigh, "High team activity and broad category involvement; sync frequently to avoid divergence"
	case activity > mediumActivityLevel || categories > mediumCategorySpread:
		return UrgencyMedium, "Moderate team activity; keep a regular sync cadence"
	default:
		return UrgencyLow, "Low team activity; a relaxed sync cadence is sufficient"
	}
}
