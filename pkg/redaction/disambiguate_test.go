package redaction

import "testing"

func TestGroupByPosition(t *testing.T) {
	spans := []Span{
		{FilterType: FilterSSN, Start: 5, End: 16},
		{FilterType: FilterPhone, Start: 5, End: 16},
		{FilterType: FilterEmail, Start: 20, End: 30},
	}
	groups := groupByPosition(spans)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	for _, g := range groups {
		if g.start == 5 && len(g.spans) != 2 {
			t.Errorf("expected position-5 group to have 2 spans, got %d", len(g.spans))
		}
	}
}

func TestDisambiguateSingletonPassesThrough(t *testing.T) {
	groups := groupByPosition([]Span{{FilterType: FilterEmail, Start: 0, End: 10}})
	out := disambiguate(groups)
	if len(out) != 1 || out[0].FilterType != FilterEmail {
		t.Fatalf("singleton group should pass through unchanged, got %+v", out)
	}
}

// "Call 123-45-6789 today." produces SSN and PHONE candidates at the same
// position; the window contains "call" so PHONE should score higher.
func TestDisambiguatePrefersContextKeywordMatch(t *testing.T) {
	text := "Call 123-45-6789 today."
	start, end := 5, 16

	ssn := Span{FilterType: FilterSSN, Start: start, End: end, Confidence: 0.95}
	phone := Span{FilterType: FilterPhone, Start: start, End: end, Confidence: 0.65}
	ssn.Window = extractWindow(text, start, end, defaultWindowTokens)
	phone.Window = extractWindow(text, start, end, defaultWindowTokens)

	winner := resolveGroup([]Span{ssn, phone})
	if winner.FilterType != FilterPhone {
		t.Fatalf("expected PHONE to win via context keyword match, got %v (score=%v)", winner.FilterType, winner.DisambiguationScore)
	}
	if len(winner.AmbiguousWith) != 1 || winner.AmbiguousWith[0] != FilterSSN {
		t.Errorf("expected losing SSN type recorded in AmbiguousWith, got %v", winner.AmbiguousWith)
	}
}

func TestDisambiguateFallsBackBelowThreshold(t *testing.T) {
	// Neither type's keywords appear in the window, so both score near zero
	// on context and the fallback (confidence then priority) decides.
	text := "xyz 123-45-6789 abc"
	start, end := 4, 15

	low := Span{FilterType: FilterSSN, Start: start, End: end, Confidence: 0.1, Priority: 50}
	high := Span{FilterType: FilterPhone, Start: start, End: end, Confidence: 0.4, Priority: 50}
	low.Window = extractWindow(text, start, end, defaultWindowTokens)
	high.Window = extractWindow(text, start, end, defaultWindowTokens)

	winner := resolveGroup([]Span{low, high})
	if winner.FilterType != FilterPhone {
		t.Fatalf("expected fallback to pick higher-confidence span, got %v", winner.FilterType)
	}
}

func TestFuzzyRatio(t *testing.T) {
	cases := []struct {
		a, b string
		min  float64
	}{
		{"ssn", "ssn", 1.0},
		{"social", "social security", 0.3},
		{"", "ssn", 0},
	}
	for _, c := range cases {
		got := fuzzyRatio(c.a, c.b)
		if got < c.min {
			t.Errorf("fuzzyRatio(%q,%q) = %v, want >= %v", c.a, c.b, got, c.min)
		}
	}
}
