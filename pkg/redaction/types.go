package redaction

// FilterType is the closed set of identifier classes the engine can detect
// and redact. It is deliberately closed: callers enable/disable by this
// enum in a Policy rather than by arbitrary strings.
type FilterType string

// Filter type constants. Values are uppercase to match the canonical token
// form {{TYPE_ID_N}}.
const (
	FilterName         FilterType = "NAME"
	FilterProviderName FilterType = "PROVIDER_NAME"
	FilterSSN          FilterType = "SSN"
	FilterDate         FilterType = "DATE"
	FilterAge          FilterType = "AGE"
	FilterPhone        FilterType = "PHONE"
	FilterFax          FilterType = "FAX"
	FilterEmail        FilterType = "EMAIL"
	FilterAddress      FilterType = "ADDRESS"
	FilterZipCode      FilterType = "ZIPCODE"
	FilterMRN          FilterType = "MRN"
	FilterNPI          FilterType = "NPI"
	FilterDEA          FilterType = "DEA"
	FilterAccount      FilterType = "ACCOUNT"
	FilterLicense      FilterType = "LICENSE"
	FilterPassport     FilterType = "PASSPORT"
	FilterHealthPlan   FilterType = "HEALTH_PLAN"
	FilterCreditCard   FilterType = "CREDIT_CARD"
	FilterDevice       FilterType = "DEVICE"
	FilterVehicle      FilterType = "VEHICLE"
	FilterBiometric    FilterType = "BIOMETRIC"
	FilterURL          FilterType = "URL"
	FilterIP           FilterType = "IP"
	FilterOccupation   FilterType = "OCCUPATION"
)

// allFilterTypes is the closed set, used for validation.
var allFilterTypes = map[FilterType]bool{
	FilterName: true, FilterProviderName: true, FilterSSN: true, FilterDate: true,
	FilterAge: true, FilterPhone: true, FilterFax: true, FilterEmail: true,
	FilterAddress: true, FilterZipCode: true, FilterMRN: true, FilterNPI: true,
	FilterDEA: true, FilterAccount: true, FilterLicense: true, FilterPassport: true,
	FilterHealthPlan: true, FilterCreditCard: true, FilterDevice: true, FilterVehicle: true,
	FilterBiometric: true, FilterURL: true, FilterIP: true, FilterOccupation: true,
}

// IsValidFilterType reports whether t belongs to the closed enumerant set.
func IsValidFilterType(t FilterType) bool {
	return allFilterTypes[t]
}

// Window is the tokenized neighborhood around a span, used for keyword-based
// disambiguation scoring.
type Window struct {
	Before []string
	After  []string
	Full   string
}

// Span is an assertion that a byte range [Start, End) of the input is an
// identifier of FilterType. Spans are immutable: the post-filter pipeline
// produces a new Span for any trim rather than mutating fields in place.
type Span struct {
	FilterType FilterType

	// Text is the matched substring; OriginalValue is the text at
	// [Start,End). Post-filter trims update both together with the
	// offsets, so OriginalValue always equals input[Start:End] -- the
	// exact bytes a replacement displaces, which is what reinsertion
	// must restore.
	Text          string
	OriginalValue string

	Start int
	End   int

	Confidence float64
	Priority   int

	// Context is the raw excerpt of up to 50 bytes before and after the
	// span, copied from the input. Window holds up to defaultWindowTokens
	// tokens on each side, taken from the whole input rather than from
	// Context, used for keyword scoring.
	Context string
	Window  Window

	// Replacement is empty until the replacement-assignment stage runs.
	Replacement string

	Applied bool
	Ignored bool

	AmbiguousWith      []FilterType
	DisambiguationScore float64

	Pattern string
	Salt    string
}

// Len returns the byte length of the span.
func (s Span) Len() int { return s.End - s.Start }

// withBounds returns a copy of s with Text, OriginalValue, Start and End
// replaced, used by post-filter trims that must not mutate the original
// span in place. OriginalValue tracks the trim: the token map must hold
// exactly the bytes the replacement displaces, or reinsertion would put
// back more than was removed.
func (s Span) withBounds(text string, start, end int) Span {
	s.Text = text
	s.OriginalValue = text
	s.Start = start
	s.End = end
	return s
}

// Scope controls how aggressively a replacement value is reused within a
// session.
type Scope int

const (
	// ScopeNone never memoizes; every occurrence gets a fresh replacement.
	ScopeNone Scope = iota
	// ScopeDocument memoizes by (filter type, original value) for the whole
	// session.
	ScopeDocument
	// ScopeContext memoizes by (context name, filter type, original value).
	ScopeContext
)

// String renders a Scope the way policy dumps and CLI output expect.
func (s Scope) String() string {
	switch s {
	case ScopeNone:
		return "none"
	case ScopeDocument:
		return "document"
	case ScopeContext:
		return "context"
	default:
		return "unknown"
	}
}

// Strategy is the per-type redaction strategy a Policy may declare.
type Strategy string

const (
	StrategyRedact  Strategy = "redact"
	StrategyMask    Strategy = "mask"
	StrategyHash    Strategy = "hash"
	StrategyEncrypt Strategy = "encrypt"
	StrategySkip    Strategy = "skip"
	StrategyShift   Strategy = "shift"
)

// IdentifierConfig is the per-type configuration within a Policy.
type IdentifierConfig struct {
	Enabled  bool     `json:"enabled"`
	Strategy Strategy `json:"strategy,omitempty"`
	Scope    Scope    `json:"-"`
}

// Policy declares which identifier classes to redact and how.
type Policy struct {
	Name        string                            `json:"-"`
	Identifiers map[FilterType]*IdentifierConfig `json:"identifiers"`
}

// Enabled reports whether t is enabled by the policy. A nil config for a
// present key means "enabled with default strategy".
func (p *Policy) Enabled(t FilterType) bool {
	if p == nil || p.Identifiers == nil {
		return false
	}
	cfg, ok := p.Identifiers[t]
	if !ok {
		return false
	}
	if cfg == nil {
		return true
	}
	return cfg.Enabled
}

// ConfigFor returns the per-type config. An absent or nil entry yields
// the default (enabled, redact); a nil policy or identifiers map yields
// the zero value.
func (p *Policy) ConfigFor(t FilterType) IdentifierConfig {
	if p == nil || p.Identifiers == nil {
		return IdentifierConfig{}
	}
	cfg := p.Identifiers[t]
	if cfg == nil {
		return IdentifierConfig{Enabled: true, Strategy: StrategyRedact}
	}
	return *cfg
}

// EnabledTypes returns the set of filter types the policy turns on.
func (p *Policy) EnabledTypes() []FilterType {
	var out []FilterType
	if p == nil {
		return out
	}
	for t, cfg := range p.Identifiers {
		if cfg == nil || cfg.Enabled {
			out = append(out, t)
		}
	}
	return out
}
