package redaction

import (
	"sync"
	"time"
)

// StatisticsTracker accumulates per-request statistics for one session. It
// is a plain owning member, not a singleton.
type StatisticsTracker struct {
	mu sync.Mutex

	SpansDetected   int
	SpansApplied    int
	SpansDropped    int
	DetectorErrors  map[FilterType]int
	ElapsedByStage  map[string]time.Duration
	ReplacementHits int // memoized reuse count across the session

	// Adversarial-defense findings, populated only when the normalizer ran.
	AdversarialSuspicion float64
	ConcealedCandidates  int
}

// NewStatisticsTracker returns a zeroed tracker.
func NewStatisticsTracker() *StatisticsTracker {
	return &StatisticsTracker{
		DetectorErrors: make(map[FilterType]int),
		ElapsedByStage: make(map[string]time.Duration),
	}
}

func (st *StatisticsTracker) recordStage(name string, d time.Duration) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.ElapsedByStage[name] += d
}

func (st *StatisticsTracker) recordDetectorError(t FilterType) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.DetectorErrors[t]++
}

// Snapshot returns a copy safe to hand to a caller without further locking.
func (st *StatisticsTracker) Snapshot() map[string]interface{} {
	st.mu.Lock()
	defer st.mu.Unlock()

	errs := make(map[string]int, len(st.DetectorErrors))
	for t, n := range st.DetectorErrors {
		errs[string(t)] = n
	}
	stages := make(map[string]string, len(st.ElapsedByStage))
	for s, d := range st.ElapsedByStage {
		stages[s] = d.String()
	}

	return map[string]interface{}{
		"spans_detected":        st.SpansDetected,
		"spans_applied":         st.SpansApplied,
		"spans_dropped":         st.SpansDropped,
		"detector_errors":       errs,
		"elapsed_by_stage":      stages,
		"replacement_hits":      st.ReplacementHits,
		"adversarial_suspicion": st.AdversarialSuspicion,
		"concealed_candidates":  st.ConcealedCandidates,
	}
}

// RedactionContext is the per-request session aggregate. It owns a
// TokenManager, a ReplacementContext, a DateShiftingEngine and a
// StatisticsTracker by value/reference -- no back-pointers from the owned
// services to the context.
type RedactionContext struct {
	Tokens       *TokenManager
	Replacements *ReplacementContext
	DateShift    *DateShiftingEngine
	Stats        *StatisticsTracker
}

// NewRedactionContext constructs a fresh session. seed drives both the date
// engine's per-session offset and the token manager's session ID, so the
// same (text, policy, seed) always yields byte-identical output; callers
// that need reproducible output across runs (tests, replay) should derive
// seed deterministically, otherwise pass a random one.
func NewRedactionContext(seed int64) *RedactionContext {
	return &RedactionContext{
		Tokens:       NewTokenManagerWithSeed(seed),
		Replacements: NewReplacementContext(),
		DateShift:    NewDateShiftingEngine(seed),
		Stats:        NewStatisticsTracker(),
	}
}

// CreateToken exposes createToken(type, original) on the session.
func (rc *RedactionContext) CreateToken(filterType FilterType, original string) string {
	return rc.Tokens.CreateToken(filterType, original)
}
