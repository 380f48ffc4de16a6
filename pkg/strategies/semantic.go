package strategies

import (
	"context"
	"fmt"
	"strings"
)

// SemanticStrategy is the registry's fallback: it substitutes a value of
// the right general class without the format fidelity of
// FormatPreservingStrategy or the name realism of FakeDataStrategy. It
// exists so GetDefaultStrategy always has somewhere to land for types with
// no explicit mapping.
type SemanticStrategy struct {
	name string
}

// NewSemanticStrategy creates a new semantic replacement strategy
func NewSemanticStrategy() *SemanticStrategy {
	return &SemanticStrategy{
		name: "semantic",
	}
}

// GetName returns the name of the strategy
func (s *SemanticStrategy) GetName() string {
	return s.name
}

// GetDescription returns a description of the strategy
func (s *SemanticStrategy) GetDescription() string {
	return "Replaces identifiers with class-appropriate substitute values"
}

// Replace performs the replacement using semantic strategy
func (s *SemanticStrategy) Replace(ctx context.Context, request *ReplacementRequest) (*ReplacementResult, error) {
	if request == nil {
		return nil, fmt.Errorf("replacement request cannot be nil")
	}

	var replacedText string
	var confidence float64 = 0.8

	switch strings.ToLower(request.DetectedType) {
	case "email":
		replacedText = fmt.Sprintf("patient%03d@example.org", randInt(1000))
	case "phone", "fax":
		replacedText = fmt.Sprintf("555-01%02d", randInt(100))
	case "ssn":
		replacedText = fmt.Sprintf("%03d-%02d-%04d", randIntRange(100, 900), randInt(100), randInt(10000))
	case "credit_card":
		replacedText = fmt.Sprintf("4111-1111-1111-%04d", randInt(10000))
	case "name", "provider_name":
		replacedText = fmt.Sprintf("%s %s", pick(fakeFirstNames), pick(fakeLastNames))
	case "address":
		replacedText = fmt.Sprintf("%d Main St", randInt(9999)+1)
	case "date":
		replacedText = fmt.Sprintf("%04d-%02d-%02d", randIntRange(1950, 2020), randInt(12)+1, randInt(28)+1)
	default:
		// Generic replacement for unknown types
		replacedText = s.generateGenericReplacement(request.OriginalText)
		confidence = 0.6
	}

	return &ReplacementResult{
		ReplacedText: replacedText,
		Strategy:     s.name,
		Confidence:   confidence,
		Reversible:   false,
		Metadata: map[string]interface{}{
			"original_length": len(request.OriginalText),
			"replaced_length": len(replacedText),
			"detected_type":   request.DetectedType,
		},
	}, nil
}

// IsReversible indicates whether this strategy supports reversible operations
func (s *SemanticStrategy) IsReversible() bool {
	return false
}

// GetCapabilities returns the capabilities of this strategy
func (s *SemanticStrategy) GetCapabilities() *StrategyCapabilities {
	return &StrategyCapabilities{
		Name: s.name,
		SupportedTypes: []string{
			"email", "phone", "fax", "ssn", "credit_card",
			"name", "provider_name", "address", "date",
		},
		SupportsReversible: false,
		SupportsFormatting: true,
		RequiresContext:    false,
		PerformanceLevel:   "fast",
		AccuracyLevel:      "good",
	}
}

func (s *SemanticStrategy) generateGenericReplacement(original string) string {
	// Size the placeholder roughly to what it replaces so sentence shape
	// survives.
	length := len(original)
	if length <= 3 {
		return "***"
	} else if length <= 10 {
		return "[REDACTED]"
	}
	return "[SENSITIVE_DATA_REDACTED]"
}
