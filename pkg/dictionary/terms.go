package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// TermSet is an exact-membership set loaded from a newline-delimited file,
// used for smaller dictionaries (city names) where a bloom filter's false
// positives aren't worth the space savings. Immutable once loaded.
type TermSet struct {
	terms map[string]bool
}

// NewTermSet builds a set from the given terms, case-folded.
func NewTermSet(terms []string) *TermSet {
	set := &TermSet{terms: make(map[string]bool, len(terms))}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			set.terms[t] = true
		}
	}
	return set
}

// LoadTermSet reads a newline-delimited term file. Blank lines and lines
// starting with '#' are skipped.
func LoadTermSet(path string) (*TermSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening term set %s: %w", path, err)
	}
	defer f.Close()

	set := &TermSet{terms: make(map[string]bool)}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set.terms[strings.ToLower(line)] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading term set %s: %w", path, err)
	}
	return set, nil
}

// Contains reports exact (case-insensitive) membership.
func (s *TermSet) Contains(term string) bool {
	if s == nil {
		return false
	}
	return s.terms[strings.ToLower(term)]
}

// Len returns the number of loaded terms.
func (s *TermSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.terms)
}
