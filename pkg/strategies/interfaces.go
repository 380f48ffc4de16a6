// Package strategies implements the replacement strategies a redaction
// policy can select per identifier type: format-preserving masking,
// consistent hashing, and fake-data substitution. Strategies produce the
// replacement text only; reversible tokenization lives with the session's
// token manager, not here.
package strategies

import (
	"context"
)

// ReplacementStrategy is one way of producing a replacement for a detected
// identifier.
type ReplacementStrategy interface {
	// GetName returns the registry name of the strategy
	GetName() string

	// GetDescription returns a description of the strategy
	GetDescription() string

	// Replace produces the replacement text for one detected value
	Replace(ctx context.Context, request *ReplacementRequest) (*ReplacementResult, error)

	// IsReversible indicates whether this strategy supports reversible operations
	IsReversible() bool

	// GetCapabilities returns the capabilities of this strategy
	GetCapabilities() *StrategyCapabilities
}

// ReplacementRequest carries one detected value into a strategy.
// DetectedType is the lowercase identifier-class name ("ssn", "mrn",
// "provider_name", ...).
type ReplacementRequest struct {
	OriginalText   string                 `json:"original_text"`
	DetectedType   string                 `json:"detected_type"`
	Context        *DocumentContext       `json:"context,omitempty"`
	Options        map[string]interface{} `json:"options,omitempty"`
	PreserveFormat bool                   `json:"preserve_format"`
}

// ReplacementResult is what a strategy produced for one value.
type ReplacementResult struct {
	ReplacedText string                 `json:"replaced_text"`
	Strategy     string                 `json:"strategy"`
	Confidence   float64                `json:"confidence"`
	Reversible   bool                   `json:"reversible"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// DocumentContext identifies where in a clinical document a value was
// found, for strategies that vary output by section or source system.
type DocumentContext struct {
	Source      string                 `json:"source,omitempty"`       // e.g. "progress_note", "discharge_summary"
	Section     string                 `json:"section,omitempty"`      // e.g. "history", "medications"
	ContextName string                 `json:"context_name,omitempty"` // the session's CONTEXT-scope key
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// StrategyCapabilities describes what a replacement strategy can do
type StrategyCapabilities struct {
	Name               string   `json:"name"`
	SupportedTypes     []string `json:"supported_types"`
	SupportsReversible bool     `json:"supports_reversible"`
	SupportsFormatting bool     `json:"supports_formatting"`
	RequiresContext    bool     `json:"requires_context"`
	PerformanceLevel   string   `json:"performance_level"` // "fast", "medium", "slow"
	AccuracyLevel      string   `json:"accuracy_level"`    // "basic", "good", "high"
}

// StrategyRegistry manages available replacement strategies
type StrategyRegistry interface {
	// Register registers a new strategy
	Register(strategy ReplacementStrategy) error

	// GetStrategy returns a strategy by name
	GetStrategy(name string) (ReplacementStrategy, error)

	// ListStrategies returns all available strategies
	ListStrategies() []ReplacementStrategy

	// GetDefaultStrategy returns the default strategy for a given type
	GetDefaultStrategy(detectedType string) (ReplacementStrategy, error)

	// GetBestStrategy returns the best strategy for a given context
	GetBestStrategy(ctx context.Context, request *StrategySelectionRequest) (ReplacementStrategy, error)
}

// StrategySelectionRequest represents a request to select the best strategy
type StrategySelectionRequest struct {
	DetectedType      string                 `json:"detected_type"`
	Context           *DocumentContext       `json:"context,omitempty"`
	RequiredFeatures  []string               `json:"required_features,omitempty"`
	PreferredAccuracy string                 `json:"preferred_accuracy,omitempty"`
	PreferredSpeed    string                 `json:"preferred_speed,omitempty"`
	Options           map[string]interface{} `json:"options,omitempty"`
}
