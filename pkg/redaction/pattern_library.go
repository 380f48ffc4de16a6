package redaction

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/vulpes/redact/pkg/patterns"
)

// LoadPatternLibrary reads every *.yaml file in dir, validates it with
// pkg/patterns, and installs its enabled patterns into registry. Entries
// whose Category isn't one of the closed filter types are skipped with a
// descriptive error collected but not fatal to the rest of the directory.
// Operator-authored patterns supplement, never replace, the built-ins.
func LoadPatternLibrary(registry *Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading pattern library dir %s: %w", dir, err)
	}

	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() || (filepath.Ext(entry.Name()) != ".yaml" && filepath.Ext(entry.Name()) != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		library, result, err := patterns.LoadLibraryFile(path, false)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if result != nil && !result.Valid {
			if firstErr == nil {
				firstErr = fmt.Errorf("pattern library %s failed validation", path)
			}
			continue
		}
		for _, p := range library.Patterns {
			if !p.Enabled {
				continue
			}
			t := FilterType(p.Category)
			if !IsValidFilterType(t) {
				if firstErr == nil {
					firstErr = fmt.Errorf("pattern library %s: pattern %q has unknown category %q", path, p.ID, p.Category)
				}
				continue
			}
			regex, err := regexp.Compile(p.Regex)
			if err != nil {
				continue
			}
			registry.AddPattern(p.ID, t, regex, p.Confidence, nil)
		}
	}
	return firstErr
}
