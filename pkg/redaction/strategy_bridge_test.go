package redaction

import (
	"context"
	"testing"
)

func TestStrategyNameForMapsPolicyStrategies(t *testing.T) {
	cases := map[Strategy]string{
		StrategyMask:    "format_preserving",
		StrategyHash:    "consistent_hash",
		StrategyEncrypt: "fake_data",
	}
	for strategy, want := range cases {
		if got := strategyNameFor(strategy); got != want {
			t.Errorf("strategyNameFor(%v) = %q, want %q", strategy, got, want)
		}
	}
}

func TestApplyStrategyFallsBackOnFailure(t *testing.T) {
	// An unsupported filter type/strategy combination should never panic or
	// return an empty string; it must fall back to the supplied generator.
	called := false
	fallback := func() string { called = true; return "{{FALLBACK}}" }

	s := Span{FilterType: FilterVehicle, OriginalValue: ""}
	got := applyStrategy(context.Background(), s, StrategyMask, fallback)

	if got == "" {
		t.Error("expected a non-empty replacement")
	}
	if !called {
		t.Error("expected the fallback generator to be used")
	}
}

func TestApplyStrategyHashProducesNonEmptyResult(t *testing.T) {
	s := Span{FilterType: FilterSSN, OriginalValue: "123-45-6789"}
	got := applyStrategy(context.Background(), s, StrategyHash, func() string { return "{{SHOULD_NOT_BE_USED}}" })
	if got == "" {
		t.Error("expected a non-empty hashed replacement")
	}
}
