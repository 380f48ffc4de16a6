package strategies

import (
	"context"
	"testing"
)

func TestFormatPreservingSSNKeepsSeparatorStyle(t *testing.T) {
	s := NewFormatPreservingStrategy()

	res, err := s.Replace(context.Background(), &ReplacementRequest{OriginalText: "123-45-6789", DetectedType: "ssn"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.ReplacedText) != len("123-45-6789") {
		t.Errorf("expected replacement to preserve dash-separated SSN length, got %q", res.ReplacedText)
	}
}

func TestFormatPreservingUnknownTypeDropsConfidence(t *testing.T) {
	s := NewFormatPreservingStrategy()

	res, err := s.Replace(context.Background(), &ReplacementRequest{OriginalText: "ABC-123", DetectedType: "vehicle_vin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Confidence != 0.7 {
		t.Errorf("expected generic fallback confidence of 0.7, got %v", res.Confidence)
	}
}

func TestFormatPreservingGenericEmptyInputYieldsEmptyOutput(t *testing.T) {
	s := NewFormatPreservingStrategy()

	res, err := s.Replace(context.Background(), &ReplacementRequest{OriginalText: "", DetectedType: "vehicle_vin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ReplacedText != "" {
		t.Errorf("expected empty original text to produce an empty replacement, got %q", res.ReplacedText)
	}
}

func TestFormatPreservingGenericPreservesSpecialCharacters(t *testing.T) {
	s := NewFormatPreservingStrategy()

	res, err := s.Replace(context.Background(), &ReplacementRequest{OriginalText: "AB-12", DetectedType: "vehicle_vin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.ReplacedText) != len("AB-12") || res.ReplacedText[2] != '-' {
		t.Errorf("expected separator preserved in generic fallback, got %q", res.ReplacedText)
	}
}

func TestFormatPreservingRejectsNilRequest(t *testing.T) {
	s := NewFormatPreservingStrategy()
	if _, err := s.Replace(context.Background(), nil); err == nil {
		t.Error("expected an error for a nil request")
	}
}
