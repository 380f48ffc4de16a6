package redaction

import "strings"

// invisibleCodePoints are the zero-width and formatting characters stripped
// during scoring-only normalization.
var invisibleCodePoints = map[rune]bool{
	'​': true, // ZWSP
	'‌': true, // ZWNJ
	'‍': true, // ZWJ
	'\uFEFF': true, // BOM
	'­': true, // SHY
	'‎': true, // LRM
	'‏': true, // RLM
	'⁠': true, // word joiner
	'᠎': true, // Mongolian vowel separator
}

// homoglyphs maps a small, fixed set of Cyrillic/Greek lookalikes and
// math-style dashes onto their Latin equivalents. Not exhaustive --
// adversarial Unicode defense is explicitly a best-effort, optional feature
// here, not a security boundary.
var homoglyphs = map[rune]rune{
	'а': 'a', // Cyrillic а (U+0430)
	'е': 'e', // Cyrillic е (U+0435)
	'о': 'o', // Cyrillic о (U+043E)
	'р': 'p', // Cyrillic р (U+0440)
	'с': 'c', // Cyrillic с (U+0441)
	'у': 'y', // Cyrillic у (U+0443)
	'х': 'x', // Cyrillic х (U+0445)
	'Α': 'A', // Greek capital alpha
	'Β': 'B', // Greek capital beta
	'Ε': 'E', // Greek capital epsilon
	'‒': '-',
	'–': '-',
	'—': '-',
	'−': '-',
}

// NormalizationReport summarizes what the adversarial-defense pass flagged
// in a piece of input text.
type NormalizationReport struct {
	HadInvisibles bool
	HadHomoglyphs bool
	FlaggedChars  int
	SuspicionScore float64
}

// Normalizer implements the optional Unicode adversarial-defense stage. It
// always normalizes a *copy* used only for scoring; callers never
// substitute the normalized text for detection, so span offsets continue
// to refer to the original input.
type Normalizer struct{}

// NewNormalizer returns a Normalizer; it holds no state.
func NewNormalizer() *Normalizer { return &Normalizer{} }

// Normalize returns the scoring-only normalized copy of s plus a report of
// what was flagged. The original s is never mutated or returned in place of
// itself for detection.
func (n *Normalizer) Normalize(s string) (string, NormalizationReport) {
	var report NormalizationReport
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if invisibleCodePoints[r] {
			report.HadInvisibles = true
			report.FlaggedChars++
			continue
		}
		if repl, ok := homoglyphs[r]; ok {
			report.HadHomoglyphs = true
			report.FlaggedChars++
			b.WriteRune(repl)
			continue
		}
		b.WriteRune(compatibilityFold(r))
	}

	if len(s) > 0 {
		report.SuspicionScore = float64(report.FlaggedChars) / float64(len([]rune(s)))
	}

	return b.String(), report
}

// compatibilityFold performs a minimal compatibility normalization: common
// full-width Latin letters/digits fold to their ASCII equivalents. A full
// NFKC table is out of scope; this covers the common full-width -> ASCII
// adversarial case without a dependency on golang.org/x/text/unicode/norm.
func compatibilityFold(r rune) rune {
	switch {
	case r >= 'Ａ' && r <= 'Ｚ': // fullwidth A-Z
		return r - 'Ａ' + 'A'
	case r >= 'ａ' && r <= 'ｚ': // fullwidth a-z
		return r - 'ａ' + 'a'
	case r >= '０' && r <= '９': // fullwidth 0-9
		return r - '０' + '0'
	default:
		return r
	}
}
