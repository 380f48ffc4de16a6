package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig with defaults: %v", err)
	}
	if cfg.Redaction.AbsoluteMaxSize != 500000 {
		t.Errorf("expected default absolute_max_size 500000, got %d", cfg.Redaction.AbsoluteMaxSize)
	}
	if !cfg.Redaction.AdversarialDefense {
		t.Error("expected adversarial defense enabled by default")
	}
	if !cfg.Redaction.PluginsEnabled {
		t.Error("expected plugins enabled by default")
	}
	if cfg.Redaction.Engine.ConfidenceThreshold != 0.5 {
		t.Errorf("expected default confidence threshold 0.5, got %v", cfg.Redaction.Engine.ConfidenceThreshold)
	}
	if cfg.Plugins.HookTimeout != "5s" {
		t.Errorf("expected default hook timeout 5s, got %q", cfg.Plugins.HookTimeout)
	}
}

func TestVulpesEnvOverrides(t *testing.T) {
	t.Setenv("VULPES_ADVERSARIAL_DEFENSE", "0")
	t.Setenv("VULPES_PLUGINS_ENABLED", "false")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Redaction.AdversarialDefense {
		t.Error("expected VULPES_ADVERSARIAL_DEFENSE=0 to disable the normalizer")
	}
	if cfg.Redaction.PluginsEnabled {
		t.Error("expected VULPES_PLUGINS_ENABLED=false to disable plugins")
	}
}

func TestVulpesEnvOverridesIgnoreGarbage(t *testing.T) {
	t.Setenv("VULPES_ADVERSARIAL_DEFENSE", "banana")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Redaction.AdversarialDefense {
		t.Error("expected an unparseable override to leave the default in place")
	}
}

func TestLoadConfigReadsIgnoredLists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "redaction:\n  engine:\n    ignored_terms:\n      - \"n/a\"\n    ignored_patterns:\n      - \"^TEST-\\\\d+$\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Redaction.Engine.IgnoredTerms) != 1 || cfg.Redaction.Engine.IgnoredTerms[0] != "n/a" {
		t.Errorf("expected ignored_terms loaded, got %v", cfg.Redaction.Engine.IgnoredTerms)
	}
	if len(cfg.Redaction.Engine.IgnoredPatterns) != 1 {
		t.Errorf("expected ignored_patterns loaded, got %v", cfg.Redaction.Engine.IgnoredPatterns)
	}
}
