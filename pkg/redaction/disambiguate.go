package redaction

import "strings"

// disambiguationThreshold is the minimum score below which the
// disambiguator falls back to confidence then priority.
const disambiguationThreshold = 0.15

// fuzzyMatchThreshold is the similarity cutoff for "fuzzy-≥0.7 matches" in
// the window, measured as a normalized prefix/substring overlap ratio.
const fuzzyMatchThreshold = 0.7

// keywordVectors maps each filter type to the context keywords that suggest
// it.
var keywordVectors = map[FilterType][]string{
	FilterSSN:          {"ssn", "social", "security", "number"},
	FilterPhone:        {"phone", "call", "tel", "telephone", "mobile", "contact"},
	FilterFax:          {"fax", "facsimile"},
	FilterEmail:        {"email", "e-mail", "mail", "contact"},
	FilterAddress:      {"address", "street", "residence", "home"},
	FilterZipCode:      {"zip", "postal", "code"},
	FilterMRN:          {"mrn", "medical", "record", "chart"},
	FilterNPI:          {"npi", "provider", "national"},
	FilterDEA:          {"dea", "registration", "controlled"},
	FilterAccount:      {"account", "acct", "bank"},
	FilterLicense:      {"license", "licence", "permit"},
	FilterPassport:     {"passport", "travel"},
	FilterHealthPlan:   {"health", "plan", "member", "insurance"},
	FilterCreditCard:   {"card", "credit", "payment", "visa", "mastercard"},
	FilterDevice:       {"device", "udi", "serial", "implant"},
	FilterVehicle:      {"vehicle", "vin", "license plate", "car"},
	FilterBiometric:    {"fingerprint", "retina", "biometric", "voiceprint"},
	FilterURL:          {"http", "www", "link", "url"},
	FilterIP:           {"ip", "address", "network", "host"},
	FilterOccupation:   {"occupation", "job", "employer", "profession"},
	FilterName:         {"patient", "name", "mr", "mrs", "ms", "dr"},
	FilterProviderName: {"dr", "physician", "provider", "attending", "md"},
	FilterDate:         {"date", "dob", "born", "visit", "admitted", "discharged"},
	FilterAge:          {"age", "years", "old"},
}

// disambiguationGroup is a set of spans sharing an identical [start,end)
// but differing filter type.
type disambiguationGroup struct {
	start, end int
	spans      []Span
}

// groupByPosition partitions spans into identical-position groups and
// singletons.
func groupByPosition(spans []Span) []disambiguationGroup {
	byPos := make(map[[2]int][]Span)
	var order [][2]int
	for _, s := range spans {
		key := [2]int{s.Start, s.End}
		if _, ok := byPos[key]; !ok {
			order = append(order, key)
		}
		byPos[key] = append(byPos[key], s)
	}

	groups := make([]disambiguationGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, disambiguationGroup{start: key[0], end: key[1], spans: byPos[key]})
	}
	return groups
}

// disambiguate picks one span per identical-position group, scoring each
// candidate via its filter type's keyword vector against the span's context
// window. Groups of size 1 pass through untouched.
func disambiguate(groups []disambiguationGroup) []Span {
	out := make([]Span, 0, len(groups))
	for _, g := range groups {
		if len(g.spans) == 1 {
			out = append(out, g.spans[0])
			continue
		}
		out = append(out, resolveGroup(g.spans))
	}
	return out
}

func resolveGroup(spans []Span) Span {
	type scored struct {
		span  Span
		score float64
	}
	scoredSpans := make([]scored, len(spans))
	for i, s := range spans {
		scoredSpans[i] = scored{span: s, score: disambiguationScore(s)}
	}

	best := 0
	for i := 1; i < len(scoredSpans); i++ {
		if scoredSpans[i].score > scoredSpans[best].score {
			best = i
		}
	}

	if scoredSpans[best].score < disambiguationThreshold {
		best = fallbackByConfidenceThenPriority(spans)
	}

	winner := spans[best]
	winner.DisambiguationScore = scoredSpans[best].score
	for i, s := range spans {
		// Two detectors claiming the same range with the same type is
		// duplication, not ambiguity.
		if i == best || s.FilterType == winner.FilterType {
			continue
		}
		winner.AmbiguousWith = append(winner.AmbiguousWith, s.FilterType)
	}
	return winner
}

func fallbackByConfidenceThenPriority(spans []Span) int {
	best := 0
	for i := 1; i < len(spans); i++ {
		if spans[i].Confidence > spans[best].Confidence {
			best = i
			continue
		}
		if spans[i].Confidence == spans[best].Confidence && spans[i].Priority > spans[best].Priority {
			best = i
		}
	}
	return best
}

// disambiguationScore weighs context keyword overlap over raw detector
// confidence: 0.7*context_match_rate + 0.3*confidence.
func disambiguationScore(s Span) float64 {
	keywords := keywordVectors[s.FilterType]
	if len(keywords) == 0 {
		return 0.3 * s.Confidence
	}

	windowTokens := make([]string, 0, len(s.Window.Before)+len(s.Window.After))
	windowTokens = append(windowTokens, s.Window.Before...)
	windowTokens = append(windowTokens, s.Window.After...)

	matched := 0
	for _, kw := range keywords {
		if windowContainsKeyword(windowTokens, kw) {
			matched++
		}
	}
	contextMatchRate := float64(matched) / float64(len(keywords))

	return 0.7*contextMatchRate + 0.3*s.Confidence
}

func windowContainsKeyword(tokens []string, keyword string) bool {
	kw := strings.ToLower(keyword)
	for _, t := range tokens {
		tok := strings.ToLower(t)
		if tok == kw {
			return true
		}
		if fuzzyRatio(tok, kw) >= fuzzyMatchThreshold {
			return true
		}
	}
	return false
}

// fuzzyRatio is a cheap substring-overlap similarity in [0,1], used for the
// window's fuzzy keyword match rule without pulling in a full
// edit-distance library for a single threshold check.
func fuzzyRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	shorter, longer := a, b
	if len(a) > len(b) {
		shorter, longer = b, a
	}
	if strings.Contains(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer))
	}
	return 0
}
