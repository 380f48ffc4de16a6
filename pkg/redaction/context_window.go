package redaction

import (
	"strings"
	"unicode/utf8"
)

// defaultWindowTokens is the number of tokens captured on each side of a
// span for keyword-based disambiguation scoring.
const defaultWindowTokens = 8

// extractWindow returns the tokenized neighborhood around [start,end) used
// for keyword-based disambiguation scoring. Token boundary is whitespace
// plus leading/trailing punctuation; internal punctuation (e.g.
// hyphenated words) is preserved.
func extractWindow(text string, start, end, k int) Window {
	before := tokenize(text[:start])
	after := tokenize(text[end:])

	if len(before) > k {
		before = before[len(before)-k:]
	}
	if len(after) > k {
		after = after[:k]
	}

	var full strings.Builder
	full.WriteString(strings.Join(before, " "))
	if full.Len() > 0 {
		full.WriteByte(' ')
	}
	full.WriteString(text[start:end])
	if len(after) > 0 {
		full.WriteByte(' ')
		full.WriteString(strings.Join(after, " "))
	}

	return Window{Before: before, After: after, Full: full.String()}
}

// tokenize splits on whitespace and strips leading/trailing punctuation from
// each token while preserving internal punctuation (so "don't" and
// "123-45-6789" keep their shape but a trailing comma or period is removed).
func tokenize(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		trimmed := strings.TrimFunc(f, isBoundaryPunct)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isBoundaryPunct(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '!', '?', '"', '\'', '(', ')', '[', ']', '{', '}':
		return true
	default:
		return false
	}
}

// extractContext returns up to 50 bytes before and after [start,end),
// matching Span.Context's documented budget. The cut points snap inward
// to rune boundaries so the excerpt never starts or ends mid-codepoint.
func extractContext(text string, start, end int) string {
	contextStart := start - 50
	if contextStart < 0 {
		contextStart = 0
	}
	for contextStart < start && !utf8.RuneStart(text[contextStart]) {
		contextStart++
	}
	contextEnd := end + 50
	if contextEnd > len(text) {
		contextEnd = len(text)
	}
	for contextEnd > end && contextEnd < len(text) && !utf8.RuneStart(text[contextEnd]) {
		contextEnd--
	}
	return text[contextStart:contextEnd]
}
