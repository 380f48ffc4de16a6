package redaction

import (
	"context"
	"strings"

	"github.com/vulpes/redact/pkg/strategies"
)

// strategyRegistry is the process-wide set of replacement strategies; it's
// read-only after init so sharing one instance across engines is safe.
var strategyRegistry = strategies.NewDefaultStrategyRegistry()

// strategyNameFor maps a policy Strategy onto the strategies package's
// named implementations. Redact, Skip and Shift never reach here: Redact
// and Skip are handled by the orchestrator directly, and Shift is the date
// engine's job.
func strategyNameFor(s Strategy) string {
	switch s {
	case StrategyMask:
		return "format_preserving"
	case StrategyHash:
		return "consistent_hash"
	case StrategyEncrypt:
		return "fake_data"
	default:
		return "consistent_hash"
	}
}

// applyStrategy runs the named replacement strategy against a span's
// original value, falling back to a token if the strategy can't produce a
// result (e.g. an unsupported type for format-preserving masking).
func applyStrategy(ctx context.Context, s Span, strategy Strategy, fallback func() string) string {
	name := strategyNameFor(strategy)
	impl, err := strategyRegistry.GetStrategy(name)
	if err != nil {
		return fallback()
	}

	// The strategies package keys its type switches on lowercase names.
	result, err := impl.Replace(ctx, &strategies.ReplacementRequest{
		OriginalText:   s.OriginalValue,
		DetectedType:   strings.ToLower(string(s.FilterType)),
		PreserveFormat: true,
	})
	if err != nil || result == nil || result.ReplacedText == "" {
		return fallback()
	}
	return result.ReplacedText
}
