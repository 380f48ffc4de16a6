package strategies

import (
	"context"
	"fmt"
	"strings"
)

// FakeDataStrategy substitutes a detected identifier with a plausible but
// fabricated value of the same class: fake patient and provider names,
// fictional phone numbers, invented street addresses. The output reads
// naturally in clinical text but carries no real identity.
type FakeDataStrategy struct {
	name string
}

// NewFakeDataStrategy creates a new fake data replacement strategy
func NewFakeDataStrategy() *FakeDataStrategy {
	return &FakeDataStrategy{
		name: "fake_data",
	}
}

// GetName returns the name of the strategy
func (s *FakeDataStrategy) GetName() string {
	return s.name
}

// GetDescription returns a description of the strategy
func (s *FakeDataStrategy) GetDescription() string {
	return "Replaces identifiers with fabricated values of the same class"
}

// Replace produces a fake value for the request's identifier class.
func (s *FakeDataStrategy) Replace(ctx context.Context, request *ReplacementRequest) (*ReplacementResult, error) {
	if request == nil {
		return nil, fmt.Errorf("replacement request cannot be nil")
	}

	var replacedText string
	var confidence float64 = 0.85

	switch strings.ToLower(request.DetectedType) {
	case "name":
		replacedText = s.generateFakeName()
	case "provider_name":
		replacedText = s.generateFakeProviderName()
	case "email":
		replacedText = s.generateFakeEmail()
	case "phone", "fax":
		replacedText = s.generateFakePhone()
	case "address":
		replacedText = s.generateFakeAddress()
	case "date":
		replacedText = s.generateFakeDate()
	case "age":
		replacedText = fmt.Sprintf("%d", randIntRange(18, 90))
	case "mrn":
		replacedText = fmt.Sprintf("%07d", randInt(10_000_000))
	case "occupation":
		replacedText = s.generateFakeOccupation()
	default:
		// For unknown types, generate generic fake data
		replacedText = s.generateGenericFakeData(request.OriginalText)
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
			"data_type":       "fake",
			"detected_type":   request.DetectedType,
		},
	}, nil
}

// IsReversible indicates whether this strategy supports reversible operations
func (s *FakeDataStrategy) IsReversible() bool {
	return false
}

// GetCapabilities returns the capabilities of this strategy
func (s *FakeDataStrategy) GetCapabilities() *StrategyCapabilities {
	return &StrategyCapabilities{
		Name: s.name,
		SupportedTypes: []string{
			"name", "provider_name", "email", "phone", "fax",
			"address", "date", "age", "mrn", "occupation",
		},
		SupportsReversible: false,
		SupportsFormatting: true,
		RequiresContext:    false,
		PerformanceLevel:   "fast",
		AccuracyLevel:      "good",
	}
}

var fakeFirstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
	"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Charles", "Karen", "Christopher", "Nancy", "Daniel", "Lisa",
}

var fakeLastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas",
	"Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
}

func (s *FakeDataStrategy) generateFakeName() string {
	return fmt.Sprintf("%s %s", pick(fakeFirstNames), pick(fakeLastNames))
}

func (s *FakeDataStrategy) generateFakeProviderName() string {
	credentials := []string{"MD", "DO", "NP", "RN", "PA"}
	return fmt.Sprintf("Dr. %s %s, %s", pick(fakeFirstNames), pick(fakeLastNames), pick(credentials))
}

func (s *FakeDataStrategy) generateFakeEmail() string {
	// example.com/.org/.net are reserved for exactly this use.
	domains := []string{"example.com", "example.org", "example.net"}
	user := strings.ToLower(fmt.Sprintf("%s.%s", pick(fakeFirstNames), pick(fakeLastNames)))
	return fmt.Sprintf("%s@%s", user, pick(domains))
}

func (s *FakeDataStrategy) generateFakePhone() string {
	// 555-01XX is the fictional-use range.
	return fmt.Sprintf("555-01%02d", randInt(100))
}

func (s *FakeDataStrategy) generateFakeAddress() string {
	streets := []string{
		"Main St", "Oak Ave", "Pine Rd", "Elm Dr", "First St", "Second Ave",
		"Maple St", "Cedar Ave", "Birch Rd", "Willow Dr", "Cherry St", "Walnut Ave",
	}
	return fmt.Sprintf("%d %s", randInt(9999)+1, pick(streets))
}

func (s *FakeDataStrategy) generateFakeDate() string {
	// 1-28 keeps the day valid for every month.
	return fmt.Sprintf("%04d-%02d-%02d", randIntRange(1950, 2020), randInt(12)+1, randInt(28)+1)
}

func (s *FakeDataStrategy) generateFakeOccupation() string {
	occupations := []string{
		"teacher", "accountant", "electrician", "librarian", "carpenter",
		"pharmacist", "paralegal", "dispatcher", "machinist", "translator",
	}
	return pick(occupations)
}

func (s *FakeDataStrategy) generateGenericFakeData(original string) string {
	length := len(original)

	if length <= 5 {
		return "FAKE"
	} else if length <= 15 {
		return "FAKE_DATA"
	}
	return "REALISTIC_FAKE_DATA_PLACEHOLDER"
}
