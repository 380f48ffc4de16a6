package redaction

import (
	"fmt"
	"math/rand"
	"time"
)

// dateLayouts are tried in order when parsing a detected DATE span's text.
var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// DateShiftingEngine implements the HIPAA-style consistent date offset:
// every date in a session is shifted by the same per-session day offset
// Δ, so interval relationships between dates are preserved even though
// absolute dates are not.
type DateShiftingEngine struct {
	delta  int // days, in [-365, 365]
	rng    *rand.Rand
	events []dateEvent
}

type dateEvent struct {
	number   int
	original time.Time
	text     string
}

// NewDateShiftingEngine derives Δ deterministically from seed, so the same
// session seed always yields the same offset.
func NewDateShiftingEngine(seed int64) *DateShiftingEngine {
	rng := rand.New(rand.NewSource(seed))
	delta := rng.Intn(731) - 365 // [-365, 365]
	return &DateShiftingEngine{delta: delta, rng: rng}
}

// Delta returns the session's day offset.
func (e *DateShiftingEngine) Delta() int { return e.delta }

// AddDate parses original and, if successful, records it as the next event
// in sequence and returns its 1-based event number. Unparseable input
// returns ok=false; the caller falls back to a generic DATE token.
func (e *DateShiftingEngine) AddDate(original string) (eventNumber int, ok bool) {
	parsed, parseOK := parseDate(original)
	if !parseOK {
		return 0, false
	}
	e.events = append(e.events, dateEvent{number: len(e.events) + 1, original: parsed, text: original})
	return len(e.events), true
}

// GenerateToken renders the shifted-date token text: the first event in a
// session is "[SHIFTED_DATE_n: YYYY]"; subsequent events additionally
// report the day gap from the previous original date, "[N days later,
// SHIFTED_DATE_n: YYYY]".
func (e *DateShiftingEngine) GenerateToken(eventNumber int) string {
	idx := eventNumber - 1
	if idx < 0 || idx >= len(e.events) {
		return "[DATE_REDACTED]"
	}
	event := e.events[idx]
	shifted := event.original.AddDate(0, 0, e.delta)
	year := shifted.Year()

	if idx == 0 {
		return fmt.Sprintf("[SHIFTED_DATE_%d: %d]", eventNumber, year)
	}

	prev := e.events[idx-1]
	gapDays := int(event.original.Sub(prev.original).Hours() / 24)
	return fmt.Sprintf("[%d days later, SHIFTED_DATE_%d: %d]", gapDays, eventNumber, year)
}

// OriginalText returns the original date string for event eventNumber, used
// by reinsertion for date tokens.
func (e *DateShiftingEngine) OriginalText(eventNumber int) (string, bool) {
	idx := eventNumber - 1
	if idx < 0 || idx >= len(e.events) {
		return "", false
	}
	return e.events[idx].text, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
