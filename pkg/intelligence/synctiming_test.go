package intelligence_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimcollab/collabintel-go/pkg/intelligence"
	"github.com/bimcollab/collabintel-go/pkg/store"
)

// conflictsInvolving builds n recent ledger entries involving userID.
func conflictsInvolving(userID string, n int, now time.Time) []store.ConflictEntry {
	entries := make([]store.ConflictEntry, n)
	for i := range entries {
		entries[i] = store.ConflictEntry{
			FirstUserID:  userID,
			SecondUserID: "other",
			Timestamp:    now.Add(-time.Duration(i%20+1) * 24 * time.Hour),
		}
	}
	return entries
}

func TestSyncRecommendFrequencyBreakpoints(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	advisor := intelligence.NewSyncAdvisor()
	profile := store.ProfileSnapshot{UserID: "alice"}

	cases := []struct {
		conflicts int
		minutes   int
	}{
		{91, 15}, // > 3/day
		{90, 30}, // exactly 3/day falls to the next band
		{31, 30}, // > 1/day
		{16, 45}, // > 0.5/day
		{15, 60},
		{0, 60},
	}
	for _, tc := range cases {
		timing := advisor.Recommend(&profile, nil, conflictsInvolving("alice", tc.conflicts, now), now)
		assert.Equal(t, tc.minutes, timing.FrequencyMinutes, "%d conflicts", tc.conflicts)
	}
}

func TestSyncRecommendIgnoresOtherUsersConflicts(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	advisor := intelligence.NewSyncAdvisor()
	profile := store.ProfileSnapshot{UserID: "alice"}

	timing := advisor.Recommend(&profile, nil, conflictsInvolving("bob", 91, now), now)
	assert.Equal(t, 60, timing.FrequencyMinutes)
}

func TestSyncRecommendUnknownUser(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	advisor := intelligence.NewSyncAdvisor()

	team := []store.ProfileSnapshot{busyHistogram(9, 17)}
	timing := advisor.Recommend(nil, team, nil, now)

	assert.Equal(t, intelligence.DefaultSyncFrequencyMinutes, timing.FrequencyMinutes)
	assert.Equal(t, intelligence.UrgencyLow, timing.Urgency)
	assert.Equal(t, "No activity history for this user; using the default sync cadence", timing.Rationale)
	assert.Len(t, timing.OptimalHours, 4, "optimal hours do not depend on the user")
}

func TestSyncRecommendOptimalHoursAreQuietest(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	advisor := intelligence.NewSyncAdvisor()

	// Everything except 2:00-6:00 is busy across the team.
	var team []store.ProfileSnapshot
	p := busyHistogram(0, 24)
	p.Hourly[2], p.Hourly[3], p.Hourly[4], p.Hourly[5] = 0, 0, 0, 0
	team = append(team, p)

	timing := advisor.Recommend(nil, team, nil, now)
	assert.Equal(t, []int{2, 3, 4, 5}, timing.OptimalHours, "quiet hours in ascending order")
}

func TestSyncRecommendUrgencyBands(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	advisor := intelligence.NewSyncAdvisor()

	categories := func(n int) map[string]int {
		m := make(map[string]int, n)
		for i := 0; i < n; i++ {
			m[fmt.Sprintf("Category %d", i)] = 1
		}
		return m
	}

	// Hour 12 is the busiest aggregate slot, so team activity reads 1.0.
	busyNow := busyHistogram(0, 24)
	busyNow.Hourly[12] = 50

	high := store.ProfileSnapshot{UserID: "alice", Categories: categories(11)}
	timing := advisor.Recommend(&high, []store.ProfileSnapshot{busyNow}, nil, now)
	assert.Equal(t, intelligence.UrgencyHigh, timing.Urgency)
	require.NotEmpty(t, timing.Rationale)

	// Broad categories alone is only medium.
	medium := store.ProfileSnapshot{UserID: "bob", Categories: categories(6)}
	timing = advisor.Recommend(&medium, nil, nil, now)
	assert.Equal(t, intelligence.UrgencyMedium, timing.Urgency)

	low := store.ProfileSnapshot{UserID: "carol", Categories: categories(2)}
	timing = advisor.Recommend(&low, nil, nil, now)
	assert.Equal(t, intelligence.UrgencyLow, timing.Urgency)
}

func TestSyncRecommendNoTeamHistory(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	advisor := intelligence.NewSyncAdvisor()
	profile := store.ProfileSnapshot{UserID: "alice"}

	// With no histograms at all the quietest hours degrade to the first four.
	timing := advisor.Recommend(&profile, nil, nil, now)
	assert.Equal(t, []int{0, 1, 2, 3}, timing.OptimalHours)
	assert.Equal(t, intelligence.UrgencyLow, timing.Urgency)
}
