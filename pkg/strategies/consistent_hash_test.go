package strategies

import (
	"context"
	"testing"
)

func TestConsistentHashReplaceIsDeterministic(t *testing.T) {
	s := NewConsistentHashStrategy()
	req := &ReplacementRequest{OriginalText: "123-45-6789", DetectedType: "ssn"}

	first, err := s.Replace(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Replace(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ReplacedText != second.ReplacedText {
		t.Errorf("expected same input to hash to the same value, got %q and %q", first.ReplacedText, second.ReplacedText)
	}
}

func TestConsistentHashReplaceVariesWithSalt(t *testing.T) {
	req := &ReplacementRequest{OriginalText: "jane@example.com", DetectedType: "email"}

	a := NewConsistentHashStrategyWithSalt("salt-a")
	b := NewConsistentHashStrategyWithSalt("salt-b")

	resA, _ := a.Replace(context.Background(), req)
	resB, _ := b.Replace(context.Background(), req)

	if resA.ReplacedText == resB.ReplacedText {
		t.Error("expected different salts to produce different hashes")
	}
}

func TestConsistentHashUnknownTypeFallsBackToGenericPrefix(t *testing.T) {
	s := NewConsistentHashStrategy()
	res, err := s.Replace(context.Background(), &ReplacementRequest{OriginalText: "x", DetectedType: "vehicle_vin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ReplacedText == "" {
		t.Error("expected a non-empty replacement for an unrecognized type")
	}
}

func TestConsistentHashRejectsNilRequest(t *testing.T) {
	s := NewConsistentHashStrategy()
	if _, err := s.Replace(context.Background(), nil); err == nil {
		t.Error("expected an error for a nil request")
	}
}
