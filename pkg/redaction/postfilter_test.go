package redaction

import "testing"

func TestTrailingWhitespaceFilterTrims(t *testing.T) {
	s := Span{Text: "  john@example.com  ", Start: 10, End: 30}
	out, ok := trailingWhitespaceFilter{}.Apply(s)
	if !ok {
		t.Fatal("expected trim to keep the span")
	}
	if out.Text != "john@example.com" {
		t.Errorf("expected trimmed text, got %q", out.Text)
	}
	if out.End-out.Start != len(out.Text) {
		t.Errorf("offsets not adjusted to match trimmed text: start=%d end=%d text=%q", out.Start, out.End, out.Text)
	}
	if out.OriginalValue != out.Text {
		t.Errorf("expected OriginalValue to follow the trim, got %q vs text %q", out.OriginalValue, out.Text)
	}
}

func TestTrailingPunctuationFilterSkipsAddress(t *testing.T) {
	s := Span{FilterType: FilterAddress, Text: "123 Main St.", Start: 0, End: 12}
	out, ok := trailingPunctuationFilter{}.Apply(s)
	if !ok {
		t.Fatal("expected address span to pass through")
	}
	if out.Text != "123 Main St." {
		t.Errorf("expected ADDRESS trailing period preserved, got %q", out.Text)
	}
}

func TestTrailingPunctuationFilterStripsOtherTypes(t *testing.T) {
	s := Span{FilterType: FilterName, Text: "John Doe.", Start: 0, End: 9}
	out, ok := trailingPunctuationFilter{}.Apply(s)
	if !ok || out.Text != "John Doe" {
		t.Fatalf("expected trailing period stripped, got %q ok=%v", out.Text, ok)
	}
}

func TestAlreadyTokenizedFilterDrops(t *testing.T) {
	s := Span{Text: "{{NAME_123_1}}"}
	_, ok := alreadyTokenizedFilter{}.Apply(s)
	if ok {
		t.Error("expected already-tokenized span to be dropped")
	}
}

func TestMinimumLengthFilter(t *testing.T) {
	cases := []struct {
		t    FilterType
		text string
		keep bool
	}{
		{FilterSSN, "123-45-6", false},   // 8 bytes, needs 9
		{FilterSSN, "123456789", true},   // 9 bytes
		{FilterName, "A", false},         // 1 byte, needs 2
		{FilterName, "Al", true},
	}
	for _, c := range cases {
		s := Span{FilterType: c.t, Text: c.text}
		_, ok := minimumLengthFilter{}.Apply(s)
		if ok != c.keep {
			t.Errorf("minimumLengthFilter(%v, %q): got keep=%v, want %v", c.t, c.text, ok, c.keep)
		}
	}
}

func TestIgnoredTermsFilter(t *testing.T) {
	f := ignoredTermsFilter{terms: map[string]bool{"n/a": true}}
	s := Span{Text: "N/A"}
	_, ok := f.Apply(s)
	if ok {
		t.Error("expected denylisted term (case-insensitive) to be dropped")
	}
}

func TestIgnoredPatternsFilter(t *testing.T) {
	patterns := compileIgnoredPatterns([]string{`^TEST-\d+$`})
	f := ignoredPatternsFilter{patterns: patterns}

	dropped := Span{Text: "TEST-123"}
	if _, ok := f.Apply(dropped); ok {
		t.Error("expected pattern-matched span to be dropped")
	}
	kept := Span{Text: "PROD-123"}
	if _, ok := f.Apply(kept); !ok {
		t.Error("expected non-matching span to pass through")
	}
}

func TestConfidenceThresholdFilter(t *testing.T) {
	f := confidenceThresholdFilter{threshold: 0.5}
	if _, ok := f.Apply(Span{Confidence: 0.3}); ok {
		t.Error("expected low-confidence span to be dropped")
	}
	if _, ok := f.Apply(Span{Confidence: 0.9}); !ok {
		t.Error("expected high-confidence span to pass through")
	}
}

func TestRunPostFilterPipelineShortCircuitsOnDrop(t *testing.T) {
	filters := defaultPostFilterPipeline(0.5, nil, nil)
	spans := []Span{
		{FilterType: FilterEmail, Text: "a@b.co", Confidence: 0.95},        // passes
		{FilterType: FilterSSN, Text: "{{SSN_1_1}}", Confidence: 0.9},      // dropped: AlreadyTokenized
		{FilterType: FilterName, Text: "A", Confidence: 0.9},               // dropped: too short
	}
	out := runPostFilterPipeline(spans, filters)
	if len(out) != 1 || out[0].FilterType != FilterEmail {
		t.Fatalf("expected only the email span to survive, got %+v", out)
	}
}
