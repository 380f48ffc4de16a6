package redaction

import "sync"

// ReplacementEntry records one memoized replacement.
type ReplacementEntry struct {
	OriginalValue string
	Replacement   string
	FilterType    FilterType
	ContextName   string
	FirstSeen     int64 // monotonic sequence number, not wall-clock
	Occurrences   int
}

type replacementKey struct {
	scope       Scope
	contextName string
	filterType  FilterType
	value       string
}

// ReplacementContext is the deterministic value->token memoization layer.
// It is owned by one RedactionContext per request; nothing here is shared
// across sessions.
type ReplacementContext struct {
	mu      sync.Mutex
	entries map[replacementKey]*ReplacementEntry
	seq     int64
}

// NewReplacementContext returns an empty replacement context.
func NewReplacementContext() *ReplacementContext {
	return &ReplacementContext{entries: make(map[replacementKey]*ReplacementEntry)}
}

// Generator produces a fresh replacement value; called at most once per
// distinct (value, filterType, contextName) for ScopeDocument/ScopeContext,
// and once per call for ScopeNone.
type Generator func() string

// GetReplacement looks up or mints a replacement per scope: NONE never
// memoizes; DOCUMENT memoizes by (type, value); CONTEXT memoizes by
// (contextName, type, value).
func (rc *ReplacementContext) GetReplacement(originalValue string, filterType FilterType, contextName string, scope Scope, gen Generator) string {
	if scope == ScopeNone {
		return gen()
	}

	key := replacementKey{scope: scope, filterType: filterType, value: originalValue}
	if scope == ScopeContext {
		key.contextName = contextName
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if entry, ok := rc.entries[key]; ok {
		entry.Occurrences++
		return entry.Replacement
	}

	replacement := gen()
	rc.seq++
	rc.entries[key] = &ReplacementEntry{
		OriginalValue: originalValue,
		Replacement:   replacement,
		FilterType:    filterType,
		ContextName:   contextName,
		FirstSeen:     rc.seq,
		Occurrences:   1,
	}
	return replacement
}

// Entries returns a snapshot of every memoized replacement, used by the
// session's statistics tracker.
func (rc *ReplacementContext) Entries() []ReplacementEntry {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	out := make([]ReplacementEntry, 0, len(rc.entries))
	for _, e := range rc.entries {
		out = append(out, *e)
	}
	return out
}
