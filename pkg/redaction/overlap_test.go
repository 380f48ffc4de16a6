package redaction

import "testing"

func TestResolveOverlapsNonOverlapping(t *testing.T) {
	spans := []Span{
		{Start: 0, End: 5, Priority: 50, Confidence: 0.9},
		{Start: 10, End: 15, Priority: 50, Confidence: 0.9},
	}
	out := resolveOverlaps(spans)
	if len(out) != 2 {
		t.Fatalf("expected 2 spans kept, got %d", len(out))
	}
}

func TestResolveOverlapsHigherPriorityWins(t *testing.T) {
	// A=[0,10) lower priority, B=[5,15) higher priority -> B kept, A dropped.
	a := Span{FilterType: FilterName, Start: 0, End: 10, Priority: 60, Confidence: 0.9}
	b := Span{FilterType: FilterSSN, Start: 5, End: 15, Priority: 100, Confidence: 0.9}

	out := resolveOverlaps([]Span{a, b})
	if len(out) != 1 {
		t.Fatalf("expected exactly 1 span kept, got %d", len(out))
	}
	if out[0].FilterType != FilterSSN {
		t.Errorf("expected SSN span to win on priority, got %v", out[0].FilterType)
	}
}

func TestResolveOverlapsConfidenceTieBreak(t *testing.T) {
	a := Span{FilterType: FilterName, Start: 0, End: 10, Priority: 50, Confidence: 0.6}
	b := Span{FilterType: FilterProviderName, Start: 2, End: 12, Priority: 50, Confidence: 0.95}

	out := resolveOverlaps([]Span{a, b})
	if len(out) != 1 || out[0].FilterType != FilterProviderName {
		t.Fatalf("expected higher-confidence span to win, got %+v", out)
	}
}

func TestResolveOverlapsLengthTieBreak(t *testing.T) {
	a := Span{FilterType: FilterAddress, Start: 0, End: 8, Priority: 50, Confidence: 0.8}
	b := Span{FilterType: FilterAddress, Start: 0, End: 20, Priority: 50, Confidence: 0.8}

	out := resolveOverlaps([]Span{a, b})
	if len(out) != 1 || out[0].Len() != 20 {
		t.Fatalf("expected longer span to win, got %+v", out)
	}
}

func TestResolveOverlapsInvariants(t *testing.T) {
	spans := []Span{
		{FilterType: FilterSSN, Start: 5, End: 15, Priority: 100, Confidence: 0.9},
		{FilterType: FilterName, Start: 0, End: 10, Priority: 60, Confidence: 0.9},
		{FilterType: FilterEmail, Start: 20, End: 30, Priority: 70, Confidence: 0.9},
		{FilterType: FilterPhone, Start: 25, End: 35, Priority: 70, Confidence: 0.95},
	}
	out := resolveOverlaps(spans)

	for i := 1; i < len(out); i++ {
		if out[i].Start < out[i-1].Start {
			t.Fatalf("spans not sorted by start ascending: %+v", out)
		}
		if out[i].Start < out[i-1].End {
			t.Fatalf("spans %d and %d overlap: %+v, %+v", i-1, i, out[i-1], out[i])
		}
	}
}

func TestResolveOverlapsEmptyAndSingle(t *testing.T) {
	if out := resolveOverlaps(nil); len(out) != 0 {
		t.Errorf("expected empty result for nil input, got %v", out)
	}
	single := []Span{{Start: 0, End: 5}}
	if out := resolveOverlaps(single); len(out) != 1 {
		t.Errorf("expected single span passthrough, got %v", out)
	}
}
