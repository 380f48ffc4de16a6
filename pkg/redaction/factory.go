package redaction

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// FactoryConfig collects the on-disk locations and tuning knobs an
// EngineFactory needs to assemble an Engine.
type FactoryConfig struct {
	Engine          EngineConfig
	PoliciesDir     string // e.g. "redaction/policies"
	PatternsDir     string // e.g. "redaction/patterns"
	DictionariesDir string // e.g. "redaction/dictionaries"
	PluginTimeout   int64  // nanoseconds; 0 uses the 5s default
}

// EngineFactory wires a PolicyProvider, detector Registry and PluginChain
// into ready-to-use Engine instances. Tests and the CLI both go through
// this rather than constructing an Engine's collaborators by hand.
type EngineFactory struct {
	cfg      FactoryConfig
	policies *PolicyProvider
	logger   *zap.SugaredLogger
}

// NewEngineFactory builds a factory rooted at cfg's directories.
func NewEngineFactory(cfg FactoryConfig, logger *zap.SugaredLogger) *EngineFactory {
	if cfg.PoliciesDir == "" {
		cfg.PoliciesDir = "redaction/policies"
	}
	if cfg.Engine.AbsoluteMaxSize == 0 {
		cfg.Engine.AbsoluteMaxSize = defaultAbsoluteMaxSize
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &EngineFactory{
		cfg:      cfg,
		policies: NewPolicyProvider(cfg.PoliciesDir),
		logger:   logger,
	}
}

// Policies exposes the shared policy provider so callers (e.g. the CLI's
// admin subcommands) can invalidate a cached policy after an edit.
func (f *EngineFactory) Policies() *PolicyProvider {
	return f.policies
}

// NewEngine builds an Engine using a fresh default detector registry and
// plugin chain. Callers that need custom detectors or plugins should
// construct an Engine directly via NewEngine in orchestrator.go instead.
func (f *EngineFactory) NewEngine() *Engine {
	registry := NewDefaultRegistry()
	if f.cfg.PatternsDir != "" {
		if err := LoadPatternLibrary(registry, f.cfg.PatternsDir); err != nil {
			f.logger.Warnw("pattern library load failed, continuing with builtins only", "dir", f.cfg.PatternsDir, "error", err)
		}
	}
	f.registerDictionaryDetectors(registry)

	plugins := NewPluginChain(time.Duration(f.cfg.PluginTimeout))
	return NewEngine(f.cfg.Engine, registry, plugins, f.logger)
}

// registerDictionaryDetectors wires the surname bloom filter and city term
// set into the registry when their files are present. The files themselves
// are read lazily on first Detect, so a factory build stays cheap; only
// existence is checked here to keep a missing optional dictionary from
// producing a per-request detector error.
func (f *EngineFactory) registerDictionaryDetectors(registry *Registry) {
	if f.cfg.DictionariesDir == "" {
		return
	}

	surnames := filepath.Join(f.cfg.DictionariesDir, "surnames.bloom")
	if _, err := os.Stat(surnames); err == nil {
		if err := registry.Register(NewSurnameDetector(surnames)); err != nil {
			f.logger.Warnw("surname detector registration failed", "error", err)
		}
	}

	cities := filepath.Join(f.cfg.DictionariesDir, "cities.txt")
	if _, err := os.Stat(cities); err == nil {
		if err := registry.Register(NewCityDetector(cities)); err != nil {
			f.logger.Warnw("city detector registration failed", "error", err)
		}
	}
}

// LoadPolicy loads and caches the named policy via the factory's provider.
func (f *EngineFactory) LoadPolicy(name string) (*Policy, error) {
	return f.policies.Load(name)
}
