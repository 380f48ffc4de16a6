package redaction

import (
	"context"
	"regexp"
	"strings"
	"testing"
)

func allEnabledPolicy() *Policy {
	p := &Policy{Identifiers: make(map[FilterType]*IdentifierConfig)}
	for t := range allFilterTypes {
		p.Identifiers[t] = nil
	}
	return p
}

func policyFor(types ...FilterType) *Policy {
	p := &Policy{Identifiers: make(map[FilterType]*IdentifierConfig)}
	for _, t := range types {
		p.Identifiers[t] = nil
	}
	return p
}

func newTestEngine() *Engine {
	cfg := DefaultEngineConfig()
	cfg.PluginsEnabled = false
	return NewEngine(cfg, NewDefaultRegistry(), nil, nil)
}

// Scenario 1: name, date, and SSN all detected, tokens assigned and
// reversible.
func TestRedactScenario1NameDateSSN(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(1)
	text := "Patient John Doe, DOB 01/02/1980, SSN 123-45-6789."

	redacted, err := engine.Redact(context.Background(), text, allEnabledPolicy(), session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(redacted, "John Doe") {
		t.Errorf("expected name redacted, got %q", redacted)
	}
	if strings.Contains(redacted, "123-45-6789") {
		t.Errorf("expected SSN redacted, got %q", redacted)
	}
	if strings.Contains(redacted, "01/02/1980") {
		t.Errorf("expected date redacted, got %q", redacted)
	}

	restored := engine.Restore(session, redacted)
	if !strings.Contains(restored, "123-45-6789") {
		t.Errorf("expected SSN to round-trip via reinsert, got %q", restored)
	}
	if !strings.Contains(restored, "John Doe") {
		t.Errorf("expected name to round-trip via reinsert, got %q", restored)
	}
	// The date token maps back to the original date string, not the
	// shifted one.
	if !strings.Contains(restored, "01/02/1980") {
		t.Errorf("expected date token to restore the original date string, got %q", restored)
	}
}

// Scenario 2: "Call 123-45-6789 today." with SSN and PHONE both enabled;
// disambiguation should prefer PHONE given the "Call" context keyword.
func TestRedactScenario2PhoneOverSSNDisambiguation(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(1)
	text := "Call 123-45-6789 today."

	redacted, err := engine.Redact(context.Background(), text, policyFor(FilterSSN, FilterPhone), session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(redacted, "{{PHONE_") {
		t.Errorf("expected a PHONE token in output, got %q", redacted)
	}
	if strings.Contains(redacted, "{{SSN_") {
		t.Errorf("expected no SSN token in output (disambiguated away), got %q", redacted)
	}
}

// Scenario 3: two dates 99 days apart; consecutive date-engine tokens
// report the gap, and both restore their original date strings.
func TestRedactScenario3DateShifting(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(7)
	text := "Visit on 2020-01-01 and then on 2020-04-09."

	redacted, err := engine.Redact(context.Background(), text, policyFor(FilterDate), session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !regexp.MustCompile(`\[SHIFTED_DATE_1: \d{4}\]`).MatchString(redacted) {
		t.Errorf("expected first shifted-date token in output, got %q", redacted)
	}
	if !regexp.MustCompile(`\[99 days later, SHIFTED_DATE_2: \d{4}\]`).MatchString(redacted) {
		t.Errorf("expected 99-day gap token in output, got %q", redacted)
	}

	restored := engine.Restore(session, redacted)
	if restored != text {
		t.Errorf("expected date tokens to restore original date strings, got %q", restored)
	}
}

// Scenario 4: input already containing a token verbatim must not be
// re-redacted; AlreadyTokenized drops the candidate.
func TestRedactScenario4Idempotence(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(1)
	text := "Patient record references {{NAME_123_1}} directly."

	redacted, err := engine.Redact(context.Background(), text, policyFor(FilterName), session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redacted != text {
		t.Errorf("expected output unchanged for already-tokenized input, got %q", redacted)
	}
}

// Scenario 5: input over the absolute max size is rejected outright, with
// no partial output.
func TestRedactScenario5InputTooLarge(t *testing.T) {
	engine := newTestEngine()
	engine.cfg.AbsoluteMaxSize = 10
	session := NewRedactionContext(1)

	_, err := engine.Redact(context.Background(), strings.Repeat("x", 11), policyFor(FilterName), session)
	code, ok := AsCode(err)
	if !ok || code != CodeInputTooLarge {
		t.Fatalf("expected INPUT_TOO_LARGE, got %v", err)
	}
}

func TestRedactAcceptsExactlyMaxSize(t *testing.T) {
	engine := newTestEngine()
	engine.cfg.AbsoluteMaxSize = 10
	session := NewRedactionContext(1)

	_, err := engine.Redact(context.Background(), strings.Repeat("x", 10), policyFor(FilterName), session)
	if err != nil {
		t.Fatalf("expected input at exactly the limit to be accepted, got %v", err)
	}
}

// Scenario 6: the same value appearing three times with DOCUMENT scope
// shares one token and all three round-trip.
func TestRedactScenario6DocumentScopeReuse(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(1)
	text := "Smith called. Later, Smith returned. Finally Smith left."

	redacted, err := engine.Redact(context.Background(), text, policyFor(FilterName), session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokenPattern := regexp.MustCompile(`\{\{NAME_\d+_\d+\}\}`)
	tokens := tokenPattern.FindAllString(redacted, -1)
	if len(tokens) != 3 {
		t.Fatalf("expected 3 NAME token occurrences, got %d in %q", len(tokens), redacted)
	}
	for _, tok := range tokens[1:] {
		if tok != tokens[0] {
			t.Errorf("expected all three occurrences to share one token, got %v", tokens)
		}
	}

	restored := engine.Restore(session, redacted)
	if strings.Count(restored, "Smith") != 3 {
		t.Errorf("expected all 3 occurrences restored, got %q", restored)
	}
}

// A greedy pattern that captures trailing punctuation gets trimmed by the
// post-filter; the token must map to the trimmed bytes, so reinsertion
// restores the input exactly instead of doubling the stripped comma.
func TestRedactTrimmedSpanRoundTripsExactly(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(1)
	text := "Visit www.example.com, please."

	redacted, err := engine.Redact(context.Background(), text, policyFor(FilterURL), session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(redacted, "{{URL_") {
		t.Fatalf("expected URL token in output, got %q", redacted)
	}
	if !strings.Contains(redacted, "}}, please.") {
		t.Errorf("expected the trimmed comma left outside the token, got %q", redacted)
	}

	if restored := engine.Restore(session, redacted); restored != text {
		t.Errorf("round-trip mismatch: got %q, want %q", restored, text)
	}
}

func TestRedactEmptyInput(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(1)
	out, err := engine.Redact(context.Background(), "", policyFor(FilterName), session)
	if err != nil || out != "" {
		t.Fatalf("expected empty input to produce empty output with no error, got %q, %v", out, err)
	}
}

func TestRedactNoMatchesReturnsInputUnchanged(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(1)
	text := "nothing identifiable in this sentence"
	out, err := engine.Redact(context.Background(), text, policyFor(FilterSSN, FilterEmail), session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != text {
		t.Errorf("expected unchanged output for no matches, got %q", out)
	}
}

func TestRedactRejectsInvalidUTF8(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(1)
	_, err := engine.Redact(context.Background(), "bad bytes \xff\xfe here", policyFor(FilterName), session)
	if code, ok := AsCode(err); !ok || code != CodeInputInvalid {
		t.Fatalf("expected INPUT_INVALID for malformed UTF-8, got %v", err)
	}
}

func TestRedactRecordsStatistics(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(1)
	text := "Smith called. Later, Smith returned."

	if _, err := engine.Redact(context.Background(), text, policyFor(FilterName), session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := session.Stats
	if stats.SpansApplied == 0 {
		t.Error("expected applied spans recorded")
	}
	if stats.ReplacementHits == 0 {
		t.Error("expected replacement reuse recorded for a repeated value")
	}
	if stats.ElapsedByStage["total"] == 0 {
		t.Error("expected total elapsed time recorded")
	}
	if stats.ElapsedByStage["detect"] == 0 {
		t.Error("expected detect stage elapsed time recorded")
	}
}

func TestRedactRejectsNilPolicy(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(1)
	_, err := engine.Redact(context.Background(), "hello", nil, session)
	if code, ok := AsCode(err); !ok || code != CodePolicyValidation {
		t.Fatalf("expected POLICY_VALIDATION_ERROR for nil policy, got %v", err)
	}
}

func TestRedactRejectsNilContext(t *testing.T) {
	engine := newTestEngine()
	_, err := engine.Redact(context.Background(), "hello", policyFor(FilterName), nil)
	if code, ok := AsCode(err); !ok || code != CodeContextInvalid {
		t.Fatalf("expected CONTEXT_INVALID for nil session, got %v", err)
	}
}

func TestRedactRemovesEmailAndSSN(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(1)
	text := "Email a@b.com, SSN 123-45-6789, phone 555-867-5309."

	redacted, err := engine.Redact(context.Background(), text, allEnabledPolicy(), session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(redacted, "a@b.com") || strings.Contains(redacted, "123-45-6789") {
		t.Errorf("expected detected identifiers removed, got %q", redacted)
	}
}

func TestRedactDeterministicAcrossRuns(t *testing.T) {
	text := "Patient John Doe, SSN 123-45-6789, email john@example.com."
	policy := allEnabledPolicy()

	engine1 := newTestEngine()
	session1 := NewRedactionContext(99)
	out1, err := engine1.Redact(context.Background(), text, policy, session1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	engine2 := newTestEngine()
	session2 := NewRedactionContext(99)
	out2, err := engine2.Redact(context.Background(), text, policy, session2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out1 != out2 {
		t.Errorf("expected byte-identical output for identical (text, policy, seed), got %q vs %q", out1, out2)
	}
}

func TestRedactSkipStrategyLeavesTextInPlace(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(1)
	policy := &Policy{Identifiers: map[FilterType]*IdentifierConfig{
		FilterSSN: {Enabled: true, Strategy: StrategySkip},
	}}

	text := "SSN 123-45-6789 on file."
	redacted, err := engine.Redact(context.Background(), text, policy, session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(redacted, "123-45-6789") {
		t.Errorf("expected skip strategy to leave the SSN untouched, got %q", redacted)
	}
}

func TestRestoreOnUntouchedTextIsIdentity(t *testing.T) {
	engine := newTestEngine()
	session := NewRedactionContext(1)
	text := "no tokens in here at all"
	if got := engine.Restore(session, text); got != text {
		t.Errorf("expected Restore on a plain string to be identity, got %q", got)
	}
}
