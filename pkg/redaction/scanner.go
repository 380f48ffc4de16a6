package redaction

import (
	"regexp"
	"sync"
)

// patternDef is one named pattern in the scanner's table: an id, the
// filter type it produces, the compiled regex, a base confidence, and an
// optional validator run against the matched text (e.g. a checksum).
type patternDef struct {
	id         string
	filterType FilterType
	regex      *regexp.Regexp
	confidence float64
	validator  func(string) bool
}

// PatternScanner holds a set of named patterns and applies them to produce
// candidate spans. It is safe for concurrent read-only use once built;
// detectors share one scanner instance across a fan-out.
type PatternScanner struct {
	mu       sync.RWMutex
	patterns []patternDef
}

// NewPatternScanner returns an empty scanner. Call loadBuiltins or
// AddPattern to populate it.
func NewPatternScanner() *PatternScanner {
	return &PatternScanner{}
}

// AddPattern registers one named pattern.
func (s *PatternScanner) AddPattern(id string, t FilterType, regex *regexp.Regexp, confidence float64, validator func(string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = append(s.patterns, patternDef{id: id, filterType: t, regex: regex, confidence: confidence, validator: validator})
}

// Types returns the distinct filter types covered by the loaded patterns.
func (s *PatternScanner) Types() []FilterType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[FilterType]bool)
	var out []FilterType
	for _, p := range s.patterns {
		if !seen[p.filterType] {
			seen[p.filterType] = true
			out = append(out, p.filterType)
		}
	}
	return out
}

// Scan applies every loaded pattern to text and returns candidate spans.
// Patterns are global: every match is emitted, not just the first.
func (s *PatternScanner) Scan(text string) []Span {
	return s.ScanForTypes(text, nil)
}

// ScanForTypes restricts scanning to the given filter types; a nil/empty
// slice scans everything loaded.
func (s *PatternScanner) ScanForTypes(text string, types []FilterType) []Span {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var allow map[FilterType]bool
	if len(types) > 0 {
		allow = make(map[FilterType]bool, len(types))
		for _, t := range types {
			allow[t] = true
		}
	}

	var spans []Span
	for _, p := range s.patterns {
		if allow != nil && !allow[p.filterType] {
			continue
		}
		matches := p.regex.FindAllStringIndex(text, -1)
		for _, m := range matches {
			start, end := m[0], m[1]
			value := text[start:end]
			if p.validator != nil && !p.validator(value) {
				continue
			}
			spans = append(spans, Span{
				FilterType:    p.filterType,
				Text:          value,
				OriginalValue: value,
				Start:         start,
				End:           end,
				Confidence:    p.confidence,
				Priority:      defaultPriority(p.filterType),
				Pattern:       p.id,
			})
		}
	}
	return spans
}

// loadBuiltins installs the default regex table onto the closed FilterType
// enum.
func (s *PatternScanner) loadBuiltins() {
	add := func(id string, t FilterType, expr string, confidence float64, validator func(string) bool) {
		s.AddPattern(id, t, regexp.MustCompile(expr), confidence, validator)
	}

	add("email", FilterEmail, `(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`, 0.95, nil)
	add("phone_us", FilterPhone, `\b(\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})\b`, 0.85, nil)
	// Same digit grouping as an SSN (NNN-NN-NNNN): low confidence on its own,
	// but it lets a phone-shaped candidate compete at the exact position an
	// SSN detector claims so context disambiguation can pick between
	// them instead of the scanner silently never proposing PHONE there.
	add("phone_ssn_shaped", FilterPhone, `\b\d{3}-\d{2}-\d{4}\b`, 0.65, nil)
	add("fax_us", FilterFax, `(?i)\bfax\s*:?\s*(\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})\b`, 0.8, nil)
	add("ssn", FilterSSN, `\b\d{3}-\d{2}-\d{4}\b`, 0.95, validSSNFormat)
	add("credit_card", FilterCreditCard, `\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`, 0.9, validLuhn)
	add("ip", FilterIP, `\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`, 0.8, nil)
	add("date", FilterDate, `\b(?:0?[1-9]|1[012])[-/](?:0?[1-9]|[12][0-9]|3[01])[-/](?:19|20)\d{2}\b`, 0.85, nil)
	add("date_iso", FilterDate, `\b(?:19|20)\d{2}-(?:0[1-9]|1[012])-(?:0[1-9]|[12][0-9]|3[01])\b`, 0.85, nil)
	add("url", FilterURL, `\b(?:https?://|www\.)[^\s<>"{}|\\^`+"`"+`\[\]]+`, 0.9, nil)
	add("zip", FilterZipCode, `\b\d{5}(?:-\d{4})?\b`, 0.5, nil)
	add("mrn", FilterMRN, `(?i)\bMRN\s*:?\s*\d{5,10}\b`, 0.8, nil)
	add("npi", FilterNPI, `(?i)\bNPI\s*:?\s*\d{10}\b`, 0.85, nil)
	add("dea", FilterDEA, `(?i)\b[A-Z]{2}\d{7}\b`, 0.6, nil)
	add("account", FilterAccount, `(?i)\bacct\.?\s*(?:no\.?|number)?\s*:?\s*\d{6,17}\b`, 0.6, nil)
	add("license", FilterLicense, `(?i)\b(?:license|licence)\s*(?:no\.?|number)?\s*:?\s*[A-Z0-9]{6,12}\b`, 0.55, nil)
	add("passport", FilterPassport, `(?i)\bpassport\s*(?:no\.?|number)?\s*:?\s*[A-Z0-9]{6,9}\b`, 0.6, nil)
	add("health_plan", FilterHealthPlan, `(?i)\b(?:health\s*plan|member\s*id)\s*:?\s*[A-Z0-9]{6,12}\b`, 0.55, nil)
	add("device_udi", FilterDevice, `(?i)\bUDI\s*:?\s*[A-Z0-9()+.-]{10,}\b`, 0.5, nil)
	add("vehicle_vin", FilterVehicle, `\b[A-HJ-NPR-Z0-9]{17}\b`, 0.5, nil)
	add("biometric_note", FilterBiometric, `(?i)\b(?:fingerprint|retina\s*scan|voiceprint)\s*id\s*:?\s*[A-Za-z0-9-]{4,}\b`, 0.5, nil)
	add("occupation_note", FilterOccupation, `(?i)\boccupation\s*:?\s*[A-Za-z][A-Za-z \-]{2,30}\b`, 0.4, nil)

	// Age as standalone "N years old" / "age N" phrasing, distinct from DATE.
	add("age", FilterAge, `(?i)\b(?:age[d]?\s*:?\s*(\d{1,3}))\b|\b(\d{1,3})\s*(?:years?[ -]old|y\.?o\.?)\b`, 0.7, nil)

	// Name and address have no reliable regex signature on their own; the
	// scanner still registers conservative title-cased heuristics so the
	// detector set is non-empty for these types, with low confidence and
	// a priority low enough that the disambiguator/overlap resolver can
	// defer to more specific detectors sharing a position.
	add("name_heuristic", FilterName, `\b(?:Dr|Mr|Mrs|Ms|Prof)\.\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b|\bPatient\s+[A-Z][a-z]+\s+[A-Z][a-z]+\b`, 0.6, nil)
	// The most frequent US surnames match on their own even without a
	// title; larger surname dictionaries come in through the bloom-filter
	// detector rather than the regex table.
	add("name_common_surname", FilterName, `\b(?:Smith|Johnson|Williams|Brown|Jones|Garcia|Miller|Davis|Rodriguez|Martinez|Hernandez|Lopez|Wilson|Anderson|Taylor|Thomas|Moore|Jackson|Martin|Lee)\b`, 0.6, nil)
	add("provider_name_heuristic", FilterProviderName, `\bDr\.\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?,?\s*(?:MD|DO|RN|NP)\b`, 0.65, nil)
	add("address_heuristic", FilterAddress, `\b\d{1,5}\s+[A-Z][a-z]+(?:\s[A-Z][a-z]+)*\s(?:St|Street|Ave|Avenue|Blvd|Rd|Road|Ln|Lane|Dr|Drive)\.?\b`, 0.55, nil)
}

// validSSNFormat rejects obviously-invalid SSNs (area 000/666/900-999,
// group 00, serial 0000), the standard SSA validity rules.
func validSSNFormat(value string) bool {
	digits := make([]byte, 0, 9)
	for i := 0; i < len(value); i++ {
		if value[i] >= '0' && value[i] <= '9' {
			digits = append(digits, value[i])
		}
	}
	if len(digits) != 9 {
		return false
	}
	area := string(digits[0:3])
	group := string(digits[3:5])
	serial := string(digits[5:9])
	if area == "000" || area == "666" || area[0] == '9' {
		return false
	}
	if group == "00" {
		return false
	}
	if serial == "0000" {
		return false
	}
	return true
}

// validLuhn checks the Luhn checksum used by credit-card numbers.
func validLuhn(value string) bool {
	var digits []int
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c >= '0' && c <= '9' {
			digits = append(digits, int(c-'0'))
		}
	}
	if len(digits) < 12 {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
