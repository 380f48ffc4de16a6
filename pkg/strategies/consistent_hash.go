package strategies

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ConsistentHashStrategy replaces a detected identifier with a salted
// SHA-256 digest rendered in a type-appropriate shape. The same
// (value, type, salt) always produces the same output, so cohort counts
// and joins over the redacted corpus stay meaningful without exposing the
// original value.
type ConsistentHashStrategy struct {
	name string
	salt string
}

// NewConsistentHashStrategy creates a consistent hash strategy with the
// built-in default salt. Deployments doing cross-document analytics should
// use NewConsistentHashStrategyWithSalt and manage the salt like a secret.
func NewConsistentHashStrategy() *ConsistentHashStrategy {
	return &ConsistentHashStrategy{
		name: "consistent_hash",
		salt: "default_salt_change_in_production",
	}
}

// NewConsistentHashStrategyWithSalt creates a new consistent hash strategy with custom salt
func NewConsistentHashStrategyWithSalt(salt string) *ConsistentHashStrategy {
	return &ConsistentHashStrategy{
		name: "consistent_hash",
		salt: salt,
	}
}

// GetName returns the name of the strategy
func (s *ConsistentHashStrategy) GetName() string {
	return s.name
}

// GetDescription returns a description of the strategy
func (s *ConsistentHashStrategy) GetDescription() string {
	return "Replaces identifiers with salted, type-shaped consistent hashes"
}

// Replace performs the replacement using consistent hash strategy
func (s *ConsistentHashStrategy) Replace(ctx context.Context, request *ReplacementRequest) (*ReplacementResult, error) {
	if request == nil {
		return nil, fmt.Errorf("replacement request cannot be nil")
	}

	hash := s.createConsistentHash(request.OriginalText, request.DetectedType)
	replacedText := s.formatHashForType(hash, strings.ToLower(request.DetectedType), request.Options)

	return &ReplacementResult{
		ReplacedText: replacedText,
		Strategy:     s.name,
		Confidence:   1.0, // same input, same output, always
		Reversible:   false,
		Metadata: map[string]interface{}{
			"original_length": len(request.OriginalText),
			"replaced_length": len(replacedText),
			"hash_algorithm":  "sha256",
			"detected_type":   request.DetectedType,
			"consistent":      true,
		},
	}, nil
}

// IsReversible indicates whether this strategy supports reversible operations
func (s *ConsistentHashStrategy) IsReversible() bool {
	return false
}

// GetCapabilities returns the capabilities of this strategy
func (s *ConsistentHashStrategy) GetCapabilities() *StrategyCapabilities {
	return &StrategyCapabilities{
		Name: s.name,
		SupportedTypes: []string{
			"name", "provider_name", "email", "phone", "fax", "ssn",
			"credit_card", "address", "date", "mrn", "npi", "account",
		},
		SupportsReversible: false,
		SupportsFormatting: true,
		RequiresContext:    false,
		PerformanceLevel:   "fast",
		AccuracyLevel:      "high",
	}
}

func (s *ConsistentHashStrategy) createConsistentHash(text, detectedType string) string {
	// Type participates in the hash so an SSN and an MRN with the same
	// digits don't collide into one analytic bucket.
	input := fmt.Sprintf("%s:%s:%s", text, detectedType, s.salt)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}

// formatHashForType shapes the digest so the redacted text stays readable
// for its identifier class.
func (s *ConsistentHashStrategy) formatHashForType(hash, detectedType string, options map[string]interface{}) string {
	if options != nil {
		if fullHash, ok := options["full_hash"]; ok && fullHash.(bool) {
			return hash
		}
	}

	switch detectedType {
	case "email":
		return fmt.Sprintf("user_%s@redacted.example", hash[:8])
	case "phone", "fax":
		return fmt.Sprintf("555-%s-%s", hash[:3], hash[3:7])
	case "ssn":
		return fmt.Sprintf("***-**-%s", hash[:4])
	case "credit_card":
		return fmt.Sprintf("****-****-****-%s", hash[:4])
	case "name":
		return fmt.Sprintf("Person_%s", hash[:8])
	case "provider_name":
		return fmt.Sprintf("Provider_%s", hash[:8])
	case "address":
		return fmt.Sprintf("Address_%s", hash[:8])
	case "date":
		return fmt.Sprintf("Date_%s", hash[:8])
	case "mrn":
		return fmt.Sprintf("MRN_%s", hash[:8])
	case "npi":
		return fmt.Sprintf("NPI_%s", hash[:8])
	case "account":
		return fmt.Sprintf("Acct_%s", hash[:8])
	default:
		return fmt.Sprintf("HASH_%s", hash[:16])
	}
}

// SetSalt replaces the hashing salt; existing hashes become unjoinable
// with values hashed after the change.
func (s *ConsistentHashStrategy) SetSalt(salt string) {
	s.salt = salt
}

// GetSalt returns the current salt.
func (s *ConsistentHashStrategy) GetSalt() string {
	return s.salt
}
