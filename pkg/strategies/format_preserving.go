package strategies

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// FormatPreservingStrategy masks a detected identifier while keeping its
// visual shape: digits become other digits, letters become other letters,
// separators stay put. Downstream parsers that key on the shape of an MRN
// or SSN keep working against the masked text.
type FormatPreservingStrategy struct {
	name string
}

// NewFormatPreservingStrategy creates a new format-preserving replacement strategy
func NewFormatPreservingStrategy() *FormatPreservingStrategy {
	return &FormatPreservingStrategy{
		name: "format_preserving",
	}
}

// GetName returns the name of the strategy
func (s *FormatPreservingStrategy) GetName() string {
	return s.name
}

// GetDescription returns a description of the strategy
func (s *FormatPreservingStrategy) GetDescription() string {
	return "Masks identifiers while preserving their original format and separators"
}

// Replace produces a masked value with the same shape as the original.
func (s *FormatPreservingStrategy) Replace(ctx context.Context, request *ReplacementRequest) (*ReplacementResult, error) {
	if request == nil {
		return nil, fmt.Errorf("replacement request cannot be nil")
	}

	var replacedText string
	var confidence float64 = 0.9

	switch strings.ToLower(request.DetectedType) {
	case "ssn":
		replacedText = s.maskSSN(request.OriginalText)
	case "phone", "fax":
		replacedText = s.maskPhone(request.OriginalText)
	case "credit_card":
		replacedText = s.maskCreditCard(request.OriginalText)
	case "date":
		replacedText = s.maskDate(request.OriginalText)
	case "zipcode":
		replacedText = s.maskZip(request.OriginalText)
	case "mrn", "account", "npi", "dea", "health_plan", "license":
		replacedText = s.maskDigitsKeepSeparators(request.OriginalText)
	default:
		// Generic shape preservation
		replacedText = s.maskGeneric(request.OriginalText)
		confidence = 0.7
	}

	return &ReplacementResult{
		ReplacedText: replacedText,
		Strategy:     s.name,
		Confidence:   confidence,
		Reversible:   false,
		Metadata: map[string]interface{}{
			"original_length":  len(request.OriginalText),
			"replaced_length":  len(replacedText),
			"format_preserved": true,
			"detected_type":    request.DetectedType,
		},
	}, nil
}

// IsReversible indicates whether this strategy supports reversible operations
func (s *FormatPreservingStrategy) IsReversible() bool {
	return false
}

// GetCapabilities returns the capabilities of this strategy
func (s *FormatPreservingStrategy) GetCapabilities() *StrategyCapabilities {
	return &StrategyCapabilities{
		Name: s.name,
		SupportedTypes: []string{
			"ssn", "phone", "fax", "credit_card", "date", "zipcode",
			"mrn", "account", "npi", "dea", "health_plan", "license",
		},
		SupportsReversible: false,
		SupportsFormatting: true,
		RequiresContext:    false,
		PerformanceLevel:   "fast",
		AccuracyLevel:      "high",
	}
}

var (
	isoDate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDate = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	dashDate  = regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`)
)

func (s *FormatPreservingStrategy) maskSSN(original string) string {
	// Common shapes: XXX-XX-XXXX, XXX XX XXXX, XXXXXXXXX.
	switch {
	case strings.Contains(original, "-"):
		return fmt.Sprintf("%03d-%02d-%04d", randIntRange(100, 900), randInt(100), randInt(10000))
	case strings.Contains(original, " "):
		return fmt.Sprintf("%03d %02d %04d", randIntRange(100, 900), randInt(100), randInt(10000))
	default:
		return fmt.Sprintf("%09d", randInt(1_000_000_000))
	}
}

func (s *FormatPreservingStrategy) maskPhone(original string) string {
	// Mask into the fictional 555 exchange, keeping the separator style.
	switch {
	case strings.Contains(original, "(") && strings.Contains(original, ")"):
		return fmt.Sprintf("(555) %03d-%04d", randInt(1000), randInt(10000))
	case strings.Contains(original, "."):
		return fmt.Sprintf("555.%03d.%04d", randInt(1000), randInt(10000))
	case strings.Contains(original, "-"):
		return fmt.Sprintf("555-%03d-%04d", randInt(1000), randInt(10000))
	default:
		return fmt.Sprintf("555%03d%04d", randInt(1000), randInt(10000))
	}
}

func (s *FormatPreservingStrategy) maskCreditCard(original string) string {
	// 4111... is the standard test PAN; keep the original grouping style.
	switch {
	case strings.Contains(original, "-"):
		return "4111-1111-1111-1111"
	case strings.Contains(original, " "):
		return "4111 1111 1111 1111"
	default:
		return "4111111111111111"
	}
}

func (s *FormatPreservingStrategy) maskDate(original string) string {
	year := randIntRange(1950, 2020)
	month := randInt(12) + 1
	day := randInt(28) + 1
	switch {
	case isoDate.MatchString(original):
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	case slashDate.MatchString(original):
		return fmt.Sprintf("%02d/%02d/%04d", month, day, year)
	case dashDate.MatchString(original):
		return fmt.Sprintf("%02d-%02d-%04d", month, day, year)
	default:
		return fmt.Sprintf("%02d/%02d/%04d", month, day, year)
	}
}

func (s *FormatPreservingStrategy) maskZip(original string) string {
	if len(original) == 10 && strings.Contains(original, "-") {
		return fmt.Sprintf("%05d-%04d", randInt(100000), randInt(10000))
	}
	return fmt.Sprintf("%05d", randInt(100000))
}

// maskDigitsKeepSeparators rewrites every digit but leaves letters and
// separators in place, which keeps check-prefix identifiers like DEA
// numbers (two letters + seven digits) shaped correctly.
func (s *FormatPreservingStrategy) maskDigitsKeepSeparators(original string) string {
	var b strings.Builder
	b.Grow(len(original))
	for _, char := range original {
		if char >= '0' && char <= '9' {
			fmt.Fprintf(&b, "%d", randInt(10))
		} else {
			b.WriteRune(char)
		}
	}
	return b.String()
}

func (s *FormatPreservingStrategy) maskGeneric(original string) string {
	var b strings.Builder
	b.Grow(len(original))
	for _, char := range original {
		switch {
		case char >= '0' && char <= '9':
			fmt.Fprintf(&b, "%d", randInt(10))
		case char >= 'A' && char <= 'Z':
			b.WriteRune(rune('A' + randInt(26)))
		case char >= 'a' && char <= 'z':
			b.WriteRune(rune('a' + randInt(26)))
		default:
			b.WriteRune(char)
		}
	}
	return b.String()
}
