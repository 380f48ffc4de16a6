package redaction

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// braceRun matches one or more leading/trailing `{` or `}` characters with
// optional surrounding whitespace, used to normalize benign formatting
// variants before reinsertion.
var braceRun = regexp.MustCompile(`^\s*[{+]+\s*|\s*[}+]+\s*$`)

// braceVariant matches any brace-delimited run so Reinsert can normalize a
// candidate to the canonical {{X}} form before lookup.
var braceVariant = regexp.MustCompile(`[{+]+\s*[A-Za-z0-9_: ]+?\s*[}+]+`)

// TokenManager is the session-scoped token catalog with reinsertion. N
// increments monotonically per (session, type); the session ID embedded in
// every token is numeric, matching the external token-format grammar
// (`\{\{[A-Z_]+_[0-9]+_[0-9]+\}\}`).
type TokenManager struct {
	mu        sync.RWMutex
	sessionID uint32
	counters  map[FilterType]int
	tokens    map[string]string // token -> original value
}

// NewTokenManager derives a numeric session ID from a fresh UUID and
// returns a manager ready to mint tokens for it.
func NewTokenManager() *TokenManager {
	id := uuid.New()
	// Low 32 bits of the UUID, rendered as an unsigned decimal -- numeric,
	// as the token grammar requires, while still uuid-derived.
	sessionID := uint32(id[12])<<24 | uint32(id[13])<<16 | uint32(id[14])<<8 | uint32(id[15])
	return newTokenManagerWithID(sessionID)
}

// NewTokenManagerWithSeed derives the session ID deterministically from
// seed, so two sessions built from the same seed mint byte-identical
// tokens. Sessions that need reproducible output (tests, replay) use this;
// NewTokenManager keeps the uuid-derived ID for everything else.
func NewTokenManagerWithSeed(seed int64) *TokenManager {
	// splitmix64-style scramble so adjacent seeds don't produce adjacent
	// session IDs.
	z := uint64(seed) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return newTokenManagerWithID(uint32(z ^ (z >> 31)))
}

func newTokenManagerWithID(sessionID uint32) *TokenManager {
	return &TokenManager{
		sessionID: sessionID,
		counters:  make(map[FilterType]int),
		tokens:    make(map[string]string),
	}
}

// SessionID returns the manager's numeric session identifier.
func (tm *TokenManager) SessionID() uint32 { return tm.sessionID }

// CreateToken mints "{{TYPE_ID_N}}" for original, incrementing N per
// (session, type) and recording the reverse mapping.
func (tm *TokenManager) CreateToken(filterType FilterType, original string) string {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.counters[filterType]++
	n := tm.counters[filterType]
	token := fmt.Sprintf("{{%s_%d_%d}}", filterType, tm.sessionID, n)
	tm.tokens[token] = original
	return token
}

// StoreToken injects an externally generated token (the date engine mints
// its own token text) into the reverse map without going through the
// counter logic.
func (tm *TokenManager) StoreToken(token, original string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.tokens[token] = original
}

// GetOriginalValue looks up the original value for a canonical token.
func (tm *TokenManager) GetOriginalValue(token string) (string, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	v, ok := tm.tokens[token]
	return v, ok
}

// GetTokenMap returns a snapshot of the full token -> original map.
func (tm *TokenManager) GetTokenMap() map[string]string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	out := make(map[string]string, len(tm.tokens))
	for k, v := range tm.tokens {
		out[k] = v
	}
	return out
}

// Reinsert restores every known token in text with its original value. It
// tolerates benign brace-formatting variants ("{ TYPE }", "{{{TYPE}}}",
// "{+TYPE+}") by normalizing to the canonical "{{TYPE}}" form before
// lookup, matching greedy brace runs on both sides. Tokens that are not
// brace-shaped (the date engine's "[SHIFTED_DATE_n: YYYY]" forms) are
// restored by exact match, variants are not tolerated for them.
func (tm *TokenManager) Reinsert(text string) string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	if len(tm.tokens) == 0 {
		return text
	}

	out := braceVariant.ReplaceAllStringFunc(text, func(match string) string {
		inner := strings.TrimSpace(braceRun.ReplaceAllString(match, ""))
		canonical := "{{" + inner + "}}"
		if original, ok := tm.tokens[canonical]; ok {
			return original
		}
		return match
	})

	for token, original := range tm.tokens {
		if strings.HasPrefix(token, "{") {
			continue
		}
		out = strings.ReplaceAll(out, token, original)
	}
	return out
}
