package redaction

import (
	"context"
	"fmt"
	"regexp"
	"sync"
)

// Detector proposes spans for one or more identifier types. A Detector
// MUST NOT mutate text, MUST return offsets into the given text, and MUST
// be safe to call concurrently with other detectors on the same input.
type Detector interface {
	// FilterType returns the identifier class this detector produces. A
	// detector that produces more than one type (e.g. the regex scanner)
	// returns its primary/registry key; scanners are free to emit spans of
	// other types too.
	FilterType() FilterType

	// Priority is the detector's default span priority, used by the
	// overlap resolver as a tie-break.
	Priority() int

	// Detect scans text under the given policy config and returns
	// candidate spans. Detect must honor ctx cancellation.
	Detect(ctx context.Context, text string, cfg IdentifierConfig) ([]Span, error)
}

// Registry is the process-wide, read-mostly set of detectors, populated at
// init with built-ins plus any dynamically registered plugin detectors.
type Registry struct {
	mu        sync.RWMutex
	detectors map[FilterType][]Detector
	scanner   *PatternScanner // shared builtin scanner, nil for registries built via NewRegistry
}

// NewRegistry returns an empty registry. Use NewDefaultRegistry to get one
// pre-populated with the built-in pattern-scanner-backed detectors.
func NewRegistry() *Registry {
	return &Registry{detectors: make(map[FilterType][]Detector)}
}

// NewDefaultRegistry returns a registry populated with the built-in scanner
// detectors for every filter type the default pattern table covers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	scanner := NewPatternScanner()
	scanner.loadBuiltins()
	r.scanner = scanner
	for _, t := range scanner.Types() {
		_ = r.Register(&scannerDetector{scanner: scanner, filterType: t})
	}
	return r
}

// AddPattern adds an operator-authored pattern (typically loaded from the
// pattern-library YAML) to the registry's shared scanner, registering a
// detector for its filter type if one isn't already present.
func (r *Registry) AddPattern(id string, t FilterType, regex *regexp.Regexp, confidence float64, validator func(string) bool) {
	r.mu.Lock()
	if r.scanner == nil {
		r.scanner = NewPatternScanner()
	}
	scanner := r.scanner
	_, alreadyRegistered := r.detectors[t]
	r.mu.Unlock()

	scanner.AddPattern(id, t, regex, confidence, validator)
	if !alreadyRegistered {
		_ = r.Register(&scannerDetector{scanner: scanner, filterType: t})
	}
}

// Register adds a detector under its filter type. Multiple detectors may
// share a filter type; all are run and their spans merged.
func (r *Registry) Register(d Detector) error {
	if d == nil {
		return fmt.Errorf("redaction: detector cannot be nil")
	}
	t := d.FilterType()
	if !IsValidFilterType(t) {
		return fmt.Errorf("redaction: unknown filter type %q", t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detectors[t] = append(r.detectors[t], d)
	return nil
}

// Enabled returns the detectors selected by policy: only those whose
// filter type is present in the policy's identifiers map.
func (r *Registry) Enabled(policy *Policy) []Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Detector
	for _, t := range policy.EnabledTypes() {
		out = append(out, r.detectors[t]...)
	}
	return out
}

// All returns every registered detector regardless of policy.
func (r *Registry) All() []Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Detector
	for _, ds := range r.detectors {
		out = append(out, ds...)
	}
	return out
}

// scannerDetector adapts a single FilterType slice of a shared PatternScanner
// to the Detector interface, so the fan-out in the orchestrator treats
// regex-table lookups uniformly with any plugin-registered detector.
type scannerDetector struct {
	scanner    *PatternScanner
	filterType FilterType
}

func (d *scannerDetector) FilterType() FilterType { return d.filterType }
func (d *scannerDetector) Priority() int           { return defaultPriority(d.filterType) }

func (d *scannerDetector) Detect(ctx context.Context, text string, cfg IdentifierConfig) ([]Span, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return d.scanner.ScanForTypes(text, []FilterType{d.filterType}), nil
}

// defaultPriority ranks filter types for tie-breaking overlapping spans:
// identity documents and highly-specific numeric identifiers outrank
// generic contact info.
func defaultPriority(t FilterType) int {
	switch t {
	case FilterSSN, FilterMRN, FilterNPI, FilterDEA, FilterPassport, FilterHealthPlan:
		return 100
	case FilterAccount, FilterLicense, FilterCreditCard, FilterBiometric:
		return 90
	case FilterPhone, FilterFax, FilterEmail, FilterZipCode:
		return 70
	case FilterName, FilterProviderName, FilterAddress:
		return 60
	case FilterDate, FilterAge:
		return 50
	case FilterIP, FilterURL, FilterDevice, FilterVehicle:
		return 40
	default:
		return 30
	}
}
