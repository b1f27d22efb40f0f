package intelligence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimcollab/collabintel-go/pkg/intelligence"
	"github.com/bimcollab/collabintel-go/pkg/store"
)

func TestDominantEditor(t *testing.T) {
	accesses := []store.Access{
		{UserID: "alice", Kind: store.AccessKindEdit},
		{UserID: "bob", Kind: store.AccessKindEdit},
		{UserID: "alice", Kind: store.AccessKindEdit},
		{UserID: "bob", Kind: store.AccessKindView}, // views never count
	}
	user, ok := intelligence.DominantEditor(accesses)
	require.True(t, ok)
	assert.Equal(t, "alice", user)

	// Ties resolve to the user first encountered.
	tied := []store.Access{
		{UserID: "bob", Kind: store.AccessKindEdit},
		{UserID: "alice", Kind: store.AccessKindEdit},
	}
	user, ok = intelligence.DominantEditor(tied)
	require.True(t, ok)
	assert.Equal(t, "bob", user)

	// A view-only history has no dominant editor.
	_, ok = intelligence.DominantEditor([]store.Access{{UserID: "alice", Kind: store.AccessKindView}})
	assert.False(t, ok)
	_, ok = intelligence.DominantEditor(nil)
	assert.False(t, ok)
}

func TestWorksetRecommendGroupsByDominantEditor(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	advisor := intelligence.NewWorksetAdvisor()

	// Two heavily edited elements dominated by alice, one by bob.
	wall1 := heavyPattern("wall_1", "Walls", now, 6, "alice", "bob")   // 12 accesses, alice ties broken by order
	wall2 := heavyPattern("wall_2", "Walls", now, 11, "alice")         // 11 accesses, alice only
	door1 := heavyPattern("door_1", "Doors", now, 6, "bob", "carol")   // bob dominant
	sparse := heavyPattern("door_2", "Doors", now, 5, "alice", "bob")  // 10 accesses, below the bar

	plan := advisor.Recommend([]store.PatternSnapshot{wall1, wall2, door1, sparse}, now)
	require.Len(t, plan.Suggestions, 2)

	// Suggestions come out in sorted user order.
	assert.Equal(t, "alice", plan.Suggestions[0].UserID)
	assert.Equal(t, "Workset_alice", plan.Suggestions[0].WorksetName)
	assert.ElementsMatch(t, []string{"wall_1", "wall_2"}, plan.Suggestions[0].ElementIDs)
	assert.NotEmpty(t, plan.Suggestions[0].Rationale)

	assert.Equal(t, "bob", plan.Suggestions[1].UserID)
	assert.Equal(t, []string{"door_1"}, plan.Suggestions[1].ElementIDs)
}

func TestWorksetRecommendReductionEstimate(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	advisor := intelligence.NewWorksetAdvisor()

	// One group of one element with two recent editors: contention 2/5, so the
	// expected reduction is 0.4 * 0.7.
	pattern := heavyPattern("wall_1", "Walls", now, 6, "alice", "bob")
	plan := advisor.Recommend([]store.PatternSnapshot{pattern}, now)
	require.Len(t, plan.Suggestions, 1)
	assert.InDelta(t, 0.28, plan.Suggestions[0].ExpectedConflictReduction, 1e-9)

	// Fully contended group: contention saturates at 1.0, reduction at 0.7.
	crowded := heavyPattern("col_1", "Structural Columns", now, 3, "a", "b", "c", "d", "e")
	plan = advisor.Recommend([]store.PatternSnapshot{crowded}, now)
	require.Len(t, plan.Suggestions, 1)
	assert.InDelta(t, 0.7, plan.Suggestions[0].ExpectedConflictReduction, 1e-9)
	assert.LessOrEqual(t, plan.Suggestions[0].ExpectedConflictReduction, 0.8)
}

func TestWorksetRecommendSharedElements(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	advisor := intelligence.NewWorksetAdvisor()

	// Four distinct recent users puts contention at 0.8, over the shared bar;
	// three users sits exactly at 0.6 and stays out.
	crowded := heavyPattern("col_1", "Structural Columns", now, 3, "a", "b", "c", "d")
	borderline := heavyPattern("col_2", "Structural Columns", now, 4, "a", "b", "c")

	plan := advisor.Recommend([]store.PatternSnapshot{crowded, borderline}, now)
	assert.Equal(t, []string{"col_1"}, plan.SharedElements)
	assert.NotEmpty(t, plan.SharedNote)
}

func TestWorksetRecommendEmptyInput(t *testing.T) {
	advisor := intelligence.NewWorksetAdvisor()
	plan := advisor.Recommend(nil, time.Now())
	assert.Empty(t, plan.Suggestions)
	assert.Empty(t, plan.SharedElements)
	assert.Empty(t, plan.SharedNote)
}
