package redaction

import (
	"regexp"
	"strings"
)

// postFilter is one stage of the post-filter pipeline: it either trims a
// span (returns ok=true with a possibly-modified span) or drops it
// (returns ok=false).
type postFilter interface {
	Name() string
	Apply(s Span) (Span, bool)
}

// minimumLengths is the per-type minimum match length table.
var minimumLengths = map[FilterType]int{
	FilterName:       2,
	FilterEmail:      5,
	FilterSSN:        9,
	FilterPhone:      7,
	FilterAddress:    5,
	FilterZipCode:    5,
	FilterDate:       6,
	FilterMRN:        3,
	FilterCreditCard: 13,
}

const defaultMinimumLength = 1

// defaultPostFilterPipeline returns the built-in ordered filter chain, run
// in this exact order since each filter is pure per-span and the pipeline
// short-circuits on drop.
func defaultPostFilterPipeline(confidenceThreshold float64, ignoredTerms map[string]bool, ignoredPatterns []string) []postFilter {
	return []postFilter{
		trailingWhitespaceFilter{},
		trailingPunctuationFilter{},
		alreadyTokenizedFilter{},
		minimumLengthFilter{},
		ignoredTermsFilter{terms: ignoredTerms},
		ignoredPatternsFilter{patterns: compileIgnoredPatterns(ignoredPatterns)},
		confidenceThresholdFilter{threshold: confidenceThreshold},
	}
}

// runPostFilterPipeline applies every filter in order to every span; a drop
// at any stage removes the span from further consideration.
func runPostFilterPipeline(spans []Span, filters []postFilter) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		cur := s
		dropped := false
		for _, f := range filters {
			next, ok := f.Apply(cur)
			if !ok {
				dropped = true
				break
			}
			cur = next
		}
		if !dropped {
			out = append(out, cur)
		}
	}
	return out
}

type trailingWhitespaceFilter struct{}

func (trailingWhitespaceFilter) Name() string { return "TrailingWhitespace" }
func (trailingWhitespaceFilter) Apply(s Span) (Span, bool) {
	trimmed := strings.TrimSpace(s.Text)
	if trimmed == s.Text {
		return s, true
	}
	leading := strings.Index(s.Text, trimmed)
	if leading < 0 {
		leading = 0
	}
	return s.withBounds(trimmed, s.Start+leading, s.Start+leading+len(trimmed)), true
}

type trailingPunctuationFilter struct{}

func (trailingPunctuationFilter) Name() string { return "TrailingPunctuation" }
func (f trailingPunctuationFilter) Apply(s Span) (Span, bool) {
	if s.FilterType == FilterAddress {
		// Skip: "St." and similar abbreviations legitimately end in a period.
		return s, true
	}
	trimmed := strings.TrimRight(s.Text, ".,;:!?")
	if trimmed == s.Text {
		return s, true
	}
	return s.withBounds(trimmed, s.Start, s.Start+len(trimmed)), true
}

type alreadyTokenizedFilter struct{}

func (alreadyTokenizedFilter) Name() string { return "AlreadyTokenized" }
func (alreadyTokenizedFilter) Apply(s Span) (Span, bool) {
	if strings.Contains(s.Text, "{{") || strings.Contains(s.Text, "}}") {
		return s, false
	}
	return s, true
}

type minimumLengthFilter struct{}

func (minimumLengthFilter) Name() string { return "MinimumLength" }
func (minimumLengthFilter) Apply(s Span) (Span, bool) {
	min := minimumLengths[s.FilterType]
	if min == 0 {
		min = defaultMinimumLength
	}
	if len(s.Text) < min {
		return s, false
	}
	return s, true
}

type ignoredTermsFilter struct {
	terms map[string]bool
}

func (ignoredTermsFilter) Name() string { return "IgnoredTerms" }
func (f ignoredTermsFilter) Apply(s Span) (Span, bool) {
	if len(f.terms) == 0 {
		return s, true
	}
	if f.terms[strings.ToLower(s.Text)] {
		return s, false
	}
	return s, true
}

type ignoredPatternsFilter struct {
	patterns []matcher
}

func (ignoredPatternsFilter) Name() string { return "IgnoredPatterns" }
func (f ignoredPatternsFilter) Apply(s Span) (Span, bool) {
	for _, p := range f.patterns {
		if p.MatchString(s.Text) {
			return s, false
		}
	}
	return s, true
}

type confidenceThresholdFilter struct {
	threshold float64
}

func (confidenceThresholdFilter) Name() string { return "ConfidenceThreshold" }
func (f confidenceThresholdFilter) Apply(s Span) (Span, bool) {
	if s.Confidence < f.threshold {
		return s, false
	}
	return s, true
}

// matcher is the minimal regexp surface ignoredPatternsFilter needs; kept as
// an interface so compileIgnoredPatterns can skip invalid entries without
// the filter itself depending on compilation.
type matcher interface {
	MatchString(string) bool
}

func compileIgnoredPatterns(patterns []string) []matcher {
	var out []matcher
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		out = append(out, re)
	}
	return out
}
