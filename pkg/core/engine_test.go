package core_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimcollab/collabintel-go/pkg/core"
)

// fixedClock returns a clock frozen at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewEngineDefaults(t *testing.T) {
	engine, err := core.NewEngine(nil)
	require.NoError(t, err, "nil config must fall back to defaults")

	stats := engine.Stats()
	assert.Equal(t, 0, stats.Profiles)
	assert.Equal(t, 0, stats.Patterns)
	assert.Equal(t, uint64(0), stats.Faults)
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.PredictionThreshold = 1.5

	_, err := core.NewEngine(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	var engineErr *core.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, "Validate", engineErr.Op)
}

func TestRecordActivityValidationFaults(t *testing.T) {
	var handled []error
	engine, err := core.NewEngine(nil, core.WithFaultHandler(func(err error) {
		handled = append(handled, err)
	}))
	require.NoError(t, err)

	// Missing element ID: dropped, counted, reported.
	engine.RecordActivity(core.ElementActivity{UserID: "alice"})
	assert.Equal(t, uint64(1), engine.Faults())
	require.Len(t, handled, 1)
	var engineErr *core.EngineError
	require.ErrorAs(t, handled[0], &engineErr)
	assert.Equal(t, "RecordActivity", engineErr.Op)

	// Missing user ID: also dropped.
	engine.RecordActivity(core.ElementActivity{ElementID: "wall_1"})
	assert.Equal(t, uint64(2), engine.Faults())

	// A missing level is fine.
	engine.RecordActivity(core.ElementActivity{
		UserID:    "alice",
		ElementID: "wall_1",
		Category:  "Walls",
		Kind:      core.ActivityEdit,
	})
	assert.Equal(t, uint64(2), engine.Faults())

	stats := engine.Stats()
	assert.Equal(t, 1, stats.Profiles, "rejected records must not create state")
	assert.Equal(t, 1, stats.Patterns)
	assert.Equal(t, uint64(2), stats.Faults)
}

func TestRecordSyncRejectsNegativeCounts(t *testing.T) {
	engine, err := core.NewEngine(nil)
	require.NoError(t, err)

	engine.RecordSync(core.SyncRecord{UserID: "alice", Duration: -time.Second})
	assert.Equal(t, uint64(1), engine.Faults())
	assert.Equal(t, 0, engine.Stats().SyncEntries)

	engine.RecordSync(core.SyncRecord{UserID: "alice", ElementsModified: -1})
	assert.Equal(t, uint64(2), engine.Faults())

	engine.RecordSync(core.SyncRecord{UserID: "alice", ElementsModified: 3, Duration: 2 * time.Second})
	assert.Equal(t, uint64(2), engine.Faults())
	assert.Equal(t, 1, engine.Stats().SyncEntries)
}

func TestGetUserPreferencesUnknownUser(t *testing.T) {
	engine, err := core.NewEngine(nil)
	require.NoError(t, err)

	prefs := engine.GetUserPreferences("ghost")
	assert.Equal(t, "ghost", prefs.UserID)
	assert.Zero(t, prefs.TotalActivities)
	assert.Empty(t, prefs.PreferredHours)
	assert.Empty(t, prefs.TopCategories)

	// Pure query: asking twice changes nothing.
	again := engine.GetUserPreferences("ghost")
	assert.Equal(t, prefs, again)
	assert.Equal(t, 0, engine.Stats().Profiles)
}

func TestGetUserPreferencesDerivedView(t *testing.T) {
	now := time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC)
	engine, err := core.NewEngine(nil, core.WithClock(fixedClock(now)))
	require.NoError(t, err)

	// Six activities in the 10:00 slot crosses the preferred-hour bar.
	for i := 0; i < 6; i++ {
		engine.RecordActivity(core.ElementActivity{
			UserID:    "alice",
			UserName:  "Alice",
			ElementID: "wall_1",
			Category:  "Walls",
			Level:     "Level 1",
			Kind:      core.ActivityEdit,
		})
	}
	engine.RecordActivity(core.ElementActivity{
		UserID:    "alice",
		ElementID: "door_1",
		Category:  "Doors",
		Kind:      core.ActivityEdit,
	})

	prefs := engine.GetUserPreferences("alice")
	assert.Equal(t, "Alice", prefs.UserName)
	assert.Equal(t, 7, prefs.TotalActivities)
	assert.Equal(t, []int{10}, prefs.PreferredHours)
	assert.Equal(t, []string{"Walls", "Doors"}, prefs.TopCategories)
	assert.Equal(t, []string{"Level 1"}, prefs.TopLevels)
	assert.Equal(t, 7, prefs.HourlyActivity[10])

	again := engine.GetUserPreferences("alice")
	assert.Equal(t, prefs, again)
}

func TestPredictConflictsEndToEnd(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	cfg := core.DefaultConfig()
	cfg.PredictionThreshold = 0.45
	engine, err := core.NewEngine(cfg, core.WithClock(fixedClock(now)))
	require.NoError(t, err)

	// Two users hammering the same structural column within the last hour.
	for i := 0; i < 10; i++ {
		for _, user := range []string{"alice", "bob"} {
			engine.RecordActivity(core.ElementActivity{
				UserID:      user,
				ElementID:   "col_1",
				ElementName: "Column 1",
				Category:    "Structural Columns",
				Kind:        core.ActivityEdit,
				Timestamp:   now.Add(-time.Duration(i+1) * time.Minute),
			})
		}
	}
	for i := 0; i < 4; i++ {
		engine.RecordConflict(core.ConflictRecord{
			ElementID:    "col_1",
			FirstUserID:  "alice",
			SecondUserID: "bob",
			Timestamp:    now.Add(-time.Duration(i+1) * 24 * time.Hour),
		})
	}

	predictions := engine.PredictConflicts("alice", []string{"col_1", "unknown_element"})
	require.Len(t, predictions, 1)

	p := predictions[0]
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "col_1", p.ElementID)
	assert.Equal(t, "Column 1", p.ElementName)
	assert.Equal(t, "alice", p.UserID)
	assert.Equal(t, "bob", p.OtherUserID)
	assert.Greater(t, p.Probability, 0.45)
	assert.LessOrEqual(t, p.Probability, 1.0)
	assert.Equal(t, core.SeverityHigh, p.Severity)
	assert.Contains(t, p.Factors, "High recent activity on this element")
	assert.Equal(t, now, p.GeneratedAt)
}

func TestPredictConflictsUnknownElements(t *testing.T) {
	engine, err := core.NewEngine(nil)
	require.NoError(t, err)
	assert.Empty(t, engine.PredictConflicts("alice", []string{"nothing"}))
	assert.Empty(t, engine.PredictConflicts("alice", nil))
}

func TestConflictLedgerBoundFromConfig(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.LedgerLimit = 5
	engine, err := core.NewEngine(cfg)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		engine.RecordConflict(core.ConflictRecord{
			ElementID:    "el_1",
			FirstUserID:  "alice",
			SecondUserID: "bob",
		})
	}
	assert.Equal(t, 5, engine.Stats().ConflictEntries)
}

func TestGetOptimalSyncTimingUnknownUser(t *testing.T) {
	engine, err := core.NewEngine(nil)
	require.NoError(t, err)

	timing := engine.GetOptimalSyncTiming("ghost")
	assert.Equal(t, "ghost", timing.UserID)
	assert.Equal(t, 30, timing.FrequencyMinutes)
	assert.Equal(t, core.SyncUrgencyLow, timing.Urgency)
	assert.Equal(t, "No activity history for this user; using the default sync cadence", timing.Rationale)
}

func TestGetWorksetOptimizationSmoke(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	engine, err := core.NewEngine(nil, core.WithClock(fixedClock(now)))
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		engine.RecordActivity(core.ElementActivity{
			UserID:    "alice",
			ElementID: "wall_1",
			Category:  "Walls",
			Kind:      core.ActivityEdit,
			Timestamp: now.Add(-time.Duration(i+1) * time.Minute),
		})
	}

	rec := engine.GetWorksetOptimization()
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, now, rec.GeneratedAt)
	require.Len(t, rec.Suggestions, 1)
	assert.Equal(t, "alice", rec.Suggestions[0].UserID)
	assert.Equal(t, "Workset_alice", rec.Suggestions[0].WorksetName)
}

func TestAnalyzeTeamDynamicsSmoke(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	engine, err := core.NewEngine(nil, core.WithClock(fixedClock(now)))
	require.NoError(t, err)

	for _, user := range []string{"alice", "bob"} {
		engine.RecordActivity(core.ElementActivity{
			UserID:    user,
			ElementID: "wall_1",
			Category:  "Walls",
			Kind:      core.ActivityEdit,
		})
	}

	report := engine.AnalyzeTeamDynamics()
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, now, report.GeneratedAt)
	require.Len(t, report.CollaborationPairs, 1)
	assert.Equal(t, "alice", report.CollaborationPairs[0].FirstUserID)
	assert.Equal(t, "bob", report.CollaborationPairs[0].SecondUserID)
	assert.Len(t, report.Workload, 2)
}

func TestRecordSyncUpdatesPreferences(t *testing.T) {
	now := time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)
	engine, err := core.NewEngine(nil, core.WithClock(fixedClock(now)))
	require.NoError(t, err)

	engine.RecordActivity(core.ElementActivity{
		UserID: "alice", ElementID: "wall_1", Kind: core.ActivityEdit,
	})
	engine.RecordSync(core.SyncRecord{UserID: "alice", Timestamp: now})
	engine.RecordSync(core.SyncRecord{UserID: "alice", Timestamp: now.Add(10 * time.Minute)})

	prefs := engine.GetUserPreferences("alice")
	assert.Equal(t, 2, prefs.SyncCount)
	assert.Equal(t, 5*time.Minute, prefs.AverageSyncInterval)
	assert.Equal(t, now.Add(10*time.Minute), prefs.LastSyncAt)

	// Syncs from users the engine never saw leave profiles untouched.
	engine.RecordSync(core.SyncRecord{UserID: "ghost", Timestamp: now})
	assert.Equal(t, 1, engine.Stats().Profiles)
	assert.Equal(t, 3, engine.Stats().SyncEntries)
}

func TestEngineErrorWrapping(t *testing.T) {
	err := core.NewEngineError("RecordActivity", core.ErrInvalidActivity)
	require.Error(t, err)
	assert.Equal(t, "collabintel: RecordActivity: invalid activity record", err.Error())
	assert.True(t, errors.Is(err, core.ErrInvalidActivity))
	assert.NoError(t, core.NewEngineError("RecordActivity", nil))
}
