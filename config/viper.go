package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration. Every field here is
// read by the CLI or handed to the redaction engine; knobs the engine has
// no use for don't get a key.
type Config struct {
	Redaction RedactionConfig `mapstructure:"redaction"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Plugins   PluginsConfig   `mapstructure:"plugins"`
}

type RedactionConfig struct {
	Engine EngineConfig `mapstructure:"engine"`
	// AbsoluteMaxSize bounds input size in bytes before the engine refuses
	// to process a request.
	AbsoluteMaxSize int `mapstructure:"absolute_max_size"`
	// AdversarialDefense turns on the scoring-only Unicode normalization
	// pass. Also settable via the VULPES_ADVERSARIAL_DEFENSE env var.
	AdversarialDefense bool `mapstructure:"adversarial_defense"`
	// PluginsEnabled gates the plugin hook chain entirely. Also settable
	// via the VULPES_PLUGINS_ENABLED env var.
	PluginsEnabled bool   `mapstructure:"plugins_enabled"`
	PoliciesDir    string `mapstructure:"policies_dir"`
	PatternsDir    string `mapstructure:"patterns_dir"`
	// DictionariesDir holds the on-disk bloom filters and term sets
	// (surname filter, city set) the dictionary detectors load on first use.
	DictionariesDir string `mapstructure:"dictionaries_dir"`
}

// EngineConfig carries the per-pipeline tuning the engine exposes: the
// post-filter confidence floor and the operator denylists.
type EngineConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	// IgnoredTerms are dropped by the post-filter when a detected span's
	// text matches one of them case-insensitively (e.g. "n/a", "unknown").
	IgnoredTerms []string `mapstructure:"ignored_terms"`
	// IgnoredPatterns are regexes; any span whose text matches one is
	// dropped (e.g. internal placeholder IDs like ^TEST-\d+$).
	IgnoredPatterns []string `mapstructure:"ignored_patterns"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// PluginsConfig tunes the plugin hook chain.
type PluginsConfig struct {
	// HookTimeout is a Go duration string for the per-hook timeout;
	// empty uses the engine's 5s default.
	HookTimeout string `mapstructure:"hook_timeout"`
}

// LoadConfig loads configuration from multiple sources
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// Set config file name and paths
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Environment variable configuration
	v.SetEnvPrefix("REDACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, using defaults and env vars
	}

	// Unmarshal config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	applyVulpesEnvOverrides(&config)

	return &config, nil
}

// applyVulpesEnvOverrides applies the two env vars the engine documents
// outside viper's own REDACT_ prefix scheme, since they predate the CLI's
// config layer and operators expect them to work standalone.
func applyVulpesEnvOverrides(config *Config) {
	if raw, ok := os.LookupEnv("VULPES_ADVERSARIAL_DEFENSE"); ok {
		if b, err := strconv.ParseBool(raw); err == nil {
			config.Redaction.AdversarialDefense = b
		}
	}
	if raw, ok := os.LookupEnv("VULPES_PLUGINS_ENABLED"); ok {
		if b, err := strconv.ParseBool(raw); err == nil {
			config.Redaction.PluginsEnabled = b
		}
	}
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Redaction engine defaults
	v.SetDefault("redaction.engine.confidence_threshold", 0.5)
	v.SetDefault("redaction.engine.ignored_terms", []string{})
	v.SetDefault("redaction.engine.ignored_patterns", []string{})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	// Plugin chain defaults
	v.SetDefault("plugins.hook_timeout", "5s")

	// Top-level redaction engine limits
	v.SetDefault("redaction.absolute_max_size", 500000)
	v.SetDefault("redaction.adversarial_defense", true)
	v.SetDefault("redaction.plugins_enabled", true)
	v.SetDefault("redaction.policies_dir", "redaction/policies")
	v.SetDefault("redaction.patterns_dir", "redaction/patterns")
	v.SetDefault("redaction.dictionaries_dir", "redaction/dictionaries")
}

// GetViperInstance returns a configured viper instance for advanced usage
func GetViperInstance(configFile string) (*viper.Viper, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("REDACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return v, nil
}
