package redaction

import "sort"

// resolveOverlaps enforces the pairwise-disjoint, sorted-by-start span
// invariant using a deterministic sort-then-sweep pass generalized from a
// simple "longest wins" rule to a full tie-break chain: priority, then
// confidence, then length.
func resolveOverlaps(spans []Span) []Span {
	if len(spans) <= 1 {
		return spans
	}

	ordered := make([]Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.End > b.End
	})

	kept := make([]Span, 0, len(ordered))
	for _, cur := range ordered {
		if len(kept) == 0 || cur.Start >= kept[len(kept)-1].End {
			kept = append(kept, cur)
			continue
		}
		last := kept[len(kept)-1]
		if shouldReplace(cur, last) {
			kept[len(kept)-1] = cur
		}
	}

	return kept
}

// shouldReplace decides whether candidate should replace the currently kept
// span it overlaps with: higher priority wins, then higher confidence, then
// longer range.
func shouldReplace(candidate, kept Span) bool {
	if candidate.Priority != kept.Priority {
		return candidate.Priority > kept.Priority
	}
	if candidate.Confidence != kept.Confidence {
		return candidate.Confidence > kept.Confidence
	}
	return candidate.Len() > kept.Len()
}
