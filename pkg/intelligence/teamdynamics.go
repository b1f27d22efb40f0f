package intelligence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bimcollab/collabintel-go/pkg/store"
)

// Team dynamics parameters.
const (
	// maxReportedPairs caps how many collaboration pairs the report carries.
	maxReportedPairs = 10

	// strongPairThreshold marks a normalized pair score as a strong
	// collaboration.
	strongPairThreshold = 0.7

	// frictionMinConflicts is the minimum ledger entries an unordered user
	// pair needs to surface as a friction point.
	frictionMinConflicts = 3

	// siloMinElements is the minimum exclusively accessed elements before a
	// user is reported as a knowledge silo.
	siloMinElements = 5

	// siloHighRiskElements is the exclusive-element count above which a silo
	// is high risk.
	siloHighRiskElements = 20

	// workloadTopCategories is how many categories a workload row lists.
	workloadTopCategories = 3

	// imbalanceFactor flags workload imbalance when the busiest user exceeds
	// this multiple of the least busy user's activity.
	imbalanceFactor = 3

	// spreadActiveDaysSlots is the number of non-zero histogram slots above
	// which the active-days proxy reads 5 instead of 3.
	spreadActiveDaysSlots = 12
)

// TeamAnalyzer aggregates every store into a team dynamics report.
type TeamAnalyzer struct{}

// NewTeamAnalyzer creates a TeamAnalyzer.
func NewTeamAnalyzer() *TeamAnalyzer {
	return &TeamAnalyzer{}
}

// Analyze computes the full team dynamics report: collaboration pairs,
// friction points, workload distribution, knowledge silos, and narrative
// recommendations.
//
// All sections degrade to empty slices when the underlying data is missing;
// no section divides by an empty collection.
func (t *TeamAnalyzer) Analyze(
	profiles []store.ProfileSnapshot,
	patterns []store.PatternSnapshot,
	conflicts []store.ConflictEntry,
) TeamReport {
	report := TeamReport{
		Pairs:    collaborationPairs(patterns),
		Friction: frictionPoints(conflicts),
		Workload: workloadDistribution(profiles),
		Silos:    knowledgeSilos(patterns),
	}
	report.Recommendations = recommendations(report)
	return report
}

// pairKey builds an order-independent key for a user pair and returns the
// users in sorted order.
func pairKey(a, b string) (string, string, string) {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b, a, b
}

// collaborationPairs counts, for every element, each unordered pair of
// distinct users that accessed it, normalizes by the highest count, and
// returns the top pairs by score.
func collaborationPairs(patterns []store.PatternSnapshot) []CollaborationPair {
	counts := make(map[string]*CollaborationPair)
	for _, p := range patterns {
		users := distinctUsers(p.Accesses)
		for i := 0; i < len(users); i++ {
			for j := i + 1; j < len(users); j++ {
				key, first, second := pairKey(users[i], users[j])
				pair, ok := counts[key]
				if !ok {
					pair = &CollaborationPair{FirstUserID: first, SecondUserID: second}
					counts[key] = pair
				}
				pair.SharedAccessCount++
			}
		}
	}
	if len(counts) == 0 {
		return nil
	}

	maxCount := 0
	for _, pair := range counts {
		if pair.SharedAccessCount > maxCount {
			maxCount = pair.SharedAccessCount
		}
	}

	pairs := make([]CollaborationPair, 0, len(counts))
	for _, pair := range counts {
		pair.Score = float64(pair.SharedAccessCount) / float64(maxCount)
		pair.Strong = pair.Score > strongPairThreshold
		pairs = append(pairs, *pair)
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		if pairs[i].FirstUserID != pairs[j].FirstUserID {
			return pairs[i].FirstUserID < pairs[j].FirstUserID
		}
		return pairs[i].SecondUserID < pairs[j].SecondUserID
	})
	if len(pairs) > maxReportedPairs {
		pairs = pairs[:maxReportedPairs]
	}
	return pairs
}

// frictionPoints groups conflict entries by unordered user pair and reports
// the pairs with recurring conflicts, most conflicted first.
func frictionPoints(conflicts []store.ConflictEntry) []FrictionPoint {
	type group struct {
		point    FrictionPoint
		elements map[string]struct{}
	}
	groups := make(map[string]*group)
	for _, c := range conflicts {
		key, first, second := pairKey(c.FirstUserID, c.SecondUserID)
		g, ok := groups[key]
		if !ok {
			g = &group{
				point:    FrictionPoint{FirstUserID: first, SecondUserID: second},
				elements: make(map[string]struct{}),
			}
			groups[key] = g
		}
		g.point.ConflictCount++
		if c.Timestamp.After(g.point.LastConflict) {
			g.point.LastConflict = c.Timestamp
		}
		g.elements[c.ElementID] = struct{}{}
	}

	var points []FrictionPoint
	for _, g := range groups {
		if g.point.ConflictCount < frictionMinConflicts {
			continue
		}
		for id := range g.elements {
			g.point.ElementIDs = append(g.point.ElementIDs, id)
		}
		sort.Strings(g.point.ElementIDs)
		points = append(points, g.point)
	}
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].ConflictCount != points[j].ConflictCount {
			return points[i].ConflictCount > points[j].ConflictCount
		}
		return points[i].FirstUserID < points[j].FirstUserID
	})
	return points
}

// workloadDistribution builds per-user workload rows, busiest first.
func workloadDistribution(profiles []store.ProfileSnapshot) []WorkloadEntry {
	entries := make([]WorkloadEntry, 0, len(profiles))
	for _, p := range profiles {
		entries = append(entries, WorkloadEntry{
			UserID:             p.UserID,
			UserName:           p.UserName,
			TotalActivities:    p.TotalActivities,
			ActiveDaysEstimate: activeDaysEstimate(p.Hourly),
			TopCategories:      topCounted(p.Categories, workloadTopCategories),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalActivities != entries[j].TotalActivities {
			return entries[i].TotalActivities > entries[j].TotalActivities
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries
}

// activeDaysEstimate is a coarse weekly-active-days proxy from histogram
// spread: broad activity across hours reads as 5 days, narrow as 3.
func activeDaysEstimate(hourly [24]int) int {
	nonZero := 0
	for _, v := range hourly {
		if v > 0 {
			nonZero++
		}
	}
	if nonZero > spreadActiveDaysSlots {
		return 5
	}
	return 3
}

// knowledgeSilos finds users that are the only ones to ever touch enough
// elements, with the silo's categories and a risk level.
func knowledgeSilos(patterns []store.PatternSnapshot) []KnowledgeSilo {
	type silo struct {
		count      int
		categories map[string]int
	}
	byUser := make(map[string]*silo)
	for _, p := range patterns {
		users := distinctUsers(p.Accesses)
		if len(users) != 1 {
			continue
		}
		s, ok := byUser[users[0]]
		if !ok {
			s = &silo{categories: make(map[string]int)}
			byUser[users[0]] = s
		}
		s.count++
		if p.Category != "" {
			s.categories[p.Category]++
		}
	}

	var silos []KnowledgeSilo
	for userID, s := range byUser {
		if s.count < siloMinElements {
			continue
		}
		risk := "Medium"
		if s.count > siloHighRiskElements {
			risk = "High"
		}
		categories := topCounted(s.categories, len(s.categories))
		silos = append(silos, KnowledgeSilo{
			UserID:                userID,
			ExclusiveElementCount: s.count,
			Categories:            categories,
			Risk:                  risk,
		})
	}
	sort.SliceStable(silos, func(i, j int) bool {
		if silos[i].ExclusiveElementCount != silos[j].ExclusiveElementCount {
			return silos[i].ExclusiveElementCount > silos[j].ExclusiveElementCount
		}
		return silos[i].UserID < silos[j].UserID
	})
	return silos
}

// recommendations derives the narrative suggestions from the computed
// sections.
func recommendations(report TeamReport) []string {
	var recs []string

	if len(report.Friction) > 0 {
		top := report.Friction[0]
		recs = append(recs, fmt.Sprintf(
			"Address recurring conflicts between %s and %s (%d conflicts); consider separating their overlapping worksets",
			top.FirstUserID, top.SecondUserID, top.ConflictCount))
	}

	for _, silo := range report.Silos {
		if silo.Risk != "High" {
			continue
		}
		categories := silo.Categories
		if len(categories) > 2 {
			categories = categories[:2]
		}
		recs = append(recs, fmt.Sprintf(
			"Cross-train another team member on %s to reduce the knowledge silo around %s",
			strings.Join(categories, " and "), silo.UserID))
		break
	}

	if len(report.Workload) >= 2 {
		busiest := report.Workload[0]
		least := report.Workload[len(report.Workload)-1]
		if busiest.TotalActivities > imbalanceFactor*least.TotalActivities {
			recs = append(recs, fmt.Sprintf(
				"Workload imbalance: %s carries far more activity than %s; consider rebalancing assignments",
				busiest.UserID, least.UserID))
		}
	}
	return recs
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

// distinctUsers returns the distinct user IDs in the history, in order of
// first appearance.
func distinctUsers(accesses []store.Access) []string {
	seen := make(map[string]struct{})
	var users []string
	for _, a := range accesses {
		if _, ok := seen[a.UserID]; ok {
			continue
		}
		seen[a.UserID] = struct{}{}
		users = append(users, a.UserID)
	}
	return users
}
