package core

import (
	"sync/atomic"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/bimcollab/collabintel-go/pkg/intelligence"
	"github.com/bimcollab/collabintel-go/pkg/store"
)

// Engine is the collaboration intelligence engine.
//
// It ingests per-user, per-element activity events from a collaborative
// editing host and answers analytical queries over the derived statistics:
//
//   - Conflict prediction with probability, severity, and mitigation advice
//   - Workset reorganization recommendations
//   - Sync cadence and timing recommendations
//   - Team dynamics reports (collaboration, friction, workload, silos)
//
// The engine is thread-safe and can be used concurrently from multiple
// goroutines; ingestion on unrelated users/elements does not serialize. All
// state is in-memory and process-lifetime: histories are bounded (per-element
// access rings, global FIFO ledgers), so every operation is O(bounded) and
// nothing persists across restarts.
//
// Ingestion is advisory and fire-and-forget: malformed records are dropped,
// counted, and reported through the optional fault handler; no ingestion call
// fails. Queries against unknown users or empty stores return empty or
// default results.
//
// Example usage:
//
//	config := core.DefaultConfig()
//	engine, _ := core.NewEngine(config)
//
//	engine.RecordActivity(core.ElementActivity{
//	    UserID:    "user_001",
//	    ElementID: "wall_42",
//	    Category:  "Walls",
//	    Kind:      core.ActivityEdit,
//	    Timestamp: time.Now(),
//	})
//
//	predictions := engine.PredictConflicts("user_001", []string{"wall_42"})
type Engine struct {
	// config contains the engine configuration.
	config *Config

	// profiles holds the per-user behavior profiles.
	profiles *store.ProfileStore

	// patterns holds the per-element access patterns.
	patterns *store.PatternStore

	// conflictLedger is the globally bounded conflict history.
	conflictLedger *store.Ledger[store.ConflictEntry]

	// syncLedger is the globally bounded sync history.
	syncLedger *store.Ledger[store.SyncEntry]

	// predictor computes conflict predictions.
	predictor *intelligence.Predictor

	// worksetAdvisor computes workset reorganization suggestions.
	worksetAdvisor *intelligence.WorksetAdvisor

	// syncAdvisor computes sync timing recommendations.
	syncAdvisor *intelligence.SyncAdvisor

	// teamAnalyzer computes team dynamics reports.
	teamAnalyzer *intelligence.TeamAnalyzer

	// snowflakeNode generates unique IDs for ledger entries.
	snowflakeNode *snowflake.Node

	// validate checks ingestion records before they touch any store.
	validate *validator.Validate

	// now supplies the engine clock (overridable via WithClock).
	now func() time.Time

	// faultHandler is invoked with every rejected ingestion record (may be nil).
	faultHandler func(error)

	// faults counts rejected ingestion records.
	faults atomic.Uint64
}

// NewEngine creates a new collaboration intelligence engine.
//
// Parameters:
//   - cfg: Configuration with history bounds and thresholds; nil uses
//     DefaultConfig
//   - opts: Optional construction options (WithClock, WithFaultHandler)
//
// Returns a new Engine instance, or an error if the configuration is invalid.
//
// Example:
//
//	config, _ := core.LoadConfigFromEnv()
//	engine, err := core.NewEngine(config,
//	    core.WithFaultHandler(func(err error) { log.Println(err) }),
//	)
func NewEngine(cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, NewEngineError("NewEngine", err)
	}

	options := applyOptions(opts)

	return &Engine{
		config:         cfg,
		profiles:       store.NewProfileStore(cfg.ShardCount),
		patterns:       store.NewPatternStore(cfg.ShardCount, cfg.AccessHistoryLimit),
		conflictLedger: store.NewLedger[store.ConflictEntry](cfg.LedgerLimit),
		syncLedger:     store.NewLedger[store.SyncEntry](cfg.LedgerLimit),
		predictor:      intelligence.NewPredictor(cfg.PredictionThreshold),
		worksetAdvisor: intelligence.NewWorksetAdvisor(),
		syncAdvisor:    intelligence.NewSyncAdvisor(),
		teamAnalyzer:   intelligence.NewTeamAnalyzer(),
		snowflakeNode:  node,
		validate:       validator.New(),
		now:            options.clock,
		faultHandler:   options.faultHandler,
	}, nil
}

// RecordActivity ingests one element activity.
//
// Effects: lazily creates/fetches the user's profile and the element's
// pattern; increments the profile's current-hour histogram slot, total count,
// category counter, and level counter (when a level is present); appends an
// access to the element's bounded history; advances the profile's
// last-activity timestamp.
//
// The histogram slot is chosen by the engine clock at call time, not by the
// activity's own timestamp: the histogram models when this process sees
// activity, which later feeds live team-activity queries.
//
// Invalid records (missing user or element ID) are dropped and reported as
// faults; they never corrupt store state. A missing level is allowed.
func (e *Engine) RecordActivity(activity ElementActivity) {
	if err := e.validate.Struct(activity); err != nil {
		e.fault("RecordActivity", err)
		return
	}

	now := e.now()
	ts := activity.Timestamp
	if ts.IsZero() {
		ts = now
	}

	e.profiles.Touch(activity.UserID, activity.UserName, activity.Category, activity.Level, now.Hour(), ts)
	e.patterns.RecordAccess(activity.ElementID, activity.ElementName, activity.Category, store.Access{
		UserID:    activity.UserID,
		Timestamp: ts,
		Kind:      accessKind(activity.Kind),
	})
}

// RecordConflict ingests one conflict report.
//
// The entry is appended to the bounded conflict ledger with a generated ID.
// The referenced element's conflict counter is incremented when the element
// is known; conflicts on unknown elements still enter the ledger but the
// counter update silently no-ops.
func (e *Engine) RecordConflict(record ConflictRecord) {
	if err := e.validate.Struct(record); err != nil {
		e.fault("RecordConflict", err)
		return
	}

	ts := record.Timestamp
	if ts.IsZero() {
		ts = e.now()
	}

	e.conflictLedger.Append(store.ConflictEntry{
		ID:           e.snowflakeNode.Generate().Int64(),
		ElementID:    record.ElementID,
		FirstUserID:  record.FirstUserID,
		SecondUserID: record.SecondUserID,
		Timestamp:    ts,
		Resolution:   record.Resolution,
		Resolved:     record.Resolved,
	})
	e.patterns.IncrementConflicts(record.ElementID)
}

// RecordSync ingests one sync-with-central report.
//
// The entry is appended to the bounded sync ledger. When the user already has
// a profile, its sync count, last-sync timestamp, and running average sync
// interval are updated; syncs from users the engine never saw leave profiles
// untouched.
func (e *Engine) RecordSync(record SyncRecord) {
	if err := e.validate.Struct(record); err != nil {
		e.fault("RecordSync", err)
		return
	}

	ts := record.Timestamp
	if ts.IsZero() {
		ts = e.now()
	}

	e.syncLedger.Append(store.SyncEntry{
		UserID:               record.UserID,
		Timestamp:            ts,
		ElementsModified:     record.ElementsModified,
		ConflictsEncountered: record.ConflictsEncountered,
		Duration:             record.Duration,
	})
	e.profiles.RecordSync(record.UserID, ts)
}

// GetUserPreferences returns the derived working-preference view for a user.
//
// Unknown users yield a zero-valued view with only the user ID set, so the
// call never fails. Querying twice with no intervening writes returns
// identical results.
func (e *Engine) GetUserPreferences(userID string) UserWorkingPreferences {
	snap, ok := e.profiles.Snapshot(userID)
	if !ok {
		return UserWorkingPreferences{UserID: userID}
	}
	return preferencesFromProfile(snap)
}

// PredictConflicts predicts imminent conflicts between userID and other users
// on the given active elements.
//
// For each element with a known pattern, other users with enough recent
// accesses are scored on five weighted signals; candidates above the
// configured threshold are returned with severity, an optional predicted
// time, explanatory factors, and mitigation recommendations, ordered by
// probability x severity rank descending.
//
// Unknown elements are skipped; the result is empty when nothing qualifies.
func (e *Engine) PredictConflicts(userID string, elementIDs []string) []ConflictPrediction {
	now := e.now()

	patterns := make([]store.PatternSnapshot, 0, len(elementIDs))
	for _, id := range elementIDs {
		if snap, ok := e.patterns.Snapshot(id); ok {
			patterns = append(patterns, snap)
		}
	}
	if len(patterns) == 0 {
		return nil
	}

	profiles := make(map[string]store.ProfileSnapshot)
	for _, p := range e.profiles.SnapshotAll() {
		profiles[p.UserID] = p
	}

	raw := e.predictor.Predict(userID, patterns, profiles, e.conflictLedger.Snapshot(), now)
	predictions := make([]ConflictPrediction, 0, len(raw))
	for _, p := range raw {
		predictions = append(predictions, fromIntelligencePrediction(p, uuid.NewString(), now))
	}
	return predictions
}

// GetWorksetOptimization recommends workset reassignments that reduce future
// contention.
//
// Heavily edited elements are grouped under their dominant editors as
// per-user workset proposals; elements too contested for single ownership are
// collected into a shared-workset candidate set.
func (e *Engine) GetWorksetOptimization() WorksetRecommendation {
	now := e.now()
	plan := e.worksetAdvisor.Recommend(e.patterns.SnapshotAll(), now)
	return fromIntelligencePlan(plan, uuid.NewString(), now)
}

// GetOptimalSyncTiming recommends a sync cadence and timing windows for a
// user.
//
// The cadence follows the user's recent conflict rate; the timing windows are
// the quietest hours of the team's aggregate activity. Unknown users get the
// default cadence with a generic rationale.
func (e *Engine) GetOptimalSyncTiming(userID string) SyncTimingRecommendation {
	now := e.now()
	profiles := e.profiles.SnapshotAll()

	var profile *store.ProfileSnapshot
	if snap, ok := e.profiles.Snapshot(userID); ok {
		profile = &snap
	}

	timing := e.syncAdvisor.Recommend(profile, profiles, e.conflictLedger.Snapshot(), now)
	return fromIntelligenceTiming(timing, userID)
}

// AnalyzeTeamDynamics produces the periodic team dynamics report:
// collaboration pairs, friction points, workload distribution, knowledge
// silos, and narrative recommendations.
//
// Every section degrades to empty when the underlying data is missing.
func (e *Engine) AnalyzeTeamDynamics() TeamDynamicsReport {
	report := e.teamAnalyzer.Analyze(
		e.profiles.SnapshotAll(),
		e.patterns.SnapshotAll(),
		e.conflictLedger.Snapshot(),
	)
	return fromIntelligenceReport(report, uuid.NewString(), e.now())
}

// Stats returns coarse engine counters for host-side inspection.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Profiles:        e.profiles.Len(),
		Patterns:        e.patterns.Len(),
		ConflictEntries: e.conflictLedger.Len(),
		SyncEntries:     e.syncLedger.Len(),
		Faults:          e.faults.Load(),
	}
}

// Faults returns the number of ingestion records rejected by validation.
func (e *Engine) Faults() uint64 {
	return e.faults.Load()
}

// fault records one rejected ingestion record and notifies the fault handler.
func (e *Engine) fault(op string, err error) {
	e.faults.Add(1)
	if e.faultHandler != nil {
		e.faultHandler(NewEngineError(op, err))
	}
}
