package strategies

import (
	"context"
	"testing"
)

func TestDefaultStrategyRegistryRegistersBuiltins(t *testing.T) {
	r := NewDefaultStrategyRegistry()
	names := r.GetStrategyNames()

	want := []string{"semantic", "format_preserving", "consistent_hash", "fake_data"}
	for _, w := range want {
		found := false
		for _, n := range names {
			if n == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected builtin strategy %q registered, got %v", w, names)
		}
	}
}

func TestDefaultStrategyRegistryGetStrategy(t *testing.T) {
	r := NewDefaultStrategyRegistry()
	s, err := r.GetStrategy("consistent_hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.GetName() != "consistent_hash" {
		t.Errorf("expected consistent_hash strategy, got %q", s.GetName())
	}
}

func TestDefaultStrategyRegistryGetStrategyUnknownErrors(t *testing.T) {
	r := NewDefaultStrategyRegistry()
	if _, err := r.GetStrategy("does_not_exist"); err == nil {
		t.Error("expected an error for an unregistered strategy name")
	}
}

func TestDefaultStrategyRegistryGetDefaultStrategyUsesMapping(t *testing.T) {
	r := NewDefaultStrategyRegistry()
	s, err := r.GetDefaultStrategy("ssn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.GetName() != "format_preserving" {
		t.Errorf("expected ssn to default to format_preserving, got %q", s.GetName())
	}
}

func TestDefaultStrategyRegistryGetDefaultStrategyFallsBackToSemantic(t *testing.T) {
	r := NewDefaultStrategyRegistry()
	s, err := r.GetDefaultStrategy("something_unmapped")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.GetName() != "semantic" {
		t.Errorf("expected fallback to semantic strategy, got %q", s.GetName())
	}
}

func TestDefaultStrategyRegistryGetBestStrategyRejectsNilRequest(t *testing.T) {
	r := NewDefaultStrategyRegistry()
	if _, err := r.GetBestStrategy(context.Background(), nil); err == nil {
		t.Error("expected an error for a nil selection request")
	}
}

func TestDefaultStrategyRegistryGetBestStrategyHonorsRequiredFeature(t *testing.T) {
	r := NewDefaultStrategyRegistry()
	s, err := r.GetBestStrategy(context.Background(), &StrategySelectionRequest{
		DetectedType:     "ssn",
		RequiredFeatures: []string{"format_preserving"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.GetCapabilities().SupportsFormatting {
		t.Errorf("expected a formatting-capable strategy, got %q", s.GetName())
	}
}

func TestDefaultStrategyRegistryRegisterRejectsNilAndEmptyName(t *testing.T) {
	r := NewDefaultStrategyRegistry()
	if err := r.Register(nil); err == nil {
		t.Error("expected an error registering a nil strategy")
	}
}
