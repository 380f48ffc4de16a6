package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vulpes/redact/config"
	"github.com/vulpes/redact/pkg/redaction"
)

var (
	cfgFile    string
	logLevel   string
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "redactctl",
	Short: "Vulpes redaction engine - CLI for PII/PHI detection and redaction",
	Long: `redactctl is a command-line tool for the Vulpes redaction engine.
It provides context-aware PII/PHI detection, overlap resolution, date
shifting, and reversible tokenization with policy-driven redaction
strategies.

The tool supports the full set of identifier types the engine detects,
including names, contact info, SSNs, medical record numbers, and dates,
governed per-type by a JSON policy document.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "./config", "path to configuration directory")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process-wide zap logger from the resolved config.
// A non-empty --log-level flag (default "info") takes precedence over the
// config file's logging level.
func newLogger(cfg *config.Config) *zap.SugaredLogger {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}

	var zapLevel zap.AtomicLevel
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Logging.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zapLevel
	zcfg.OutputPaths = []string{outputPathFor(cfg.Logging.Output)}

	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

func outputPathFor(output string) string {
	if output == "" {
		return "stderr"
	}
	return output
}

// newEngineFactory wires a loaded Config into a redaction.EngineFactory
// shared by the redact/engine subcommands.
func newEngineFactory(cfg *config.Config) *redaction.EngineFactory {
	logger := newLogger(cfg)

	var hookTimeout time.Duration
	if cfg.Plugins.HookTimeout != "" {
		if d, err := time.ParseDuration(cfg.Plugins.HookTimeout); err == nil {
			hookTimeout = d
		} else {
			logger.Warnw("invalid plugins.hook_timeout, using default", "value", cfg.Plugins.HookTimeout)
		}
	}

	return redaction.NewEngineFactory(redaction.FactoryConfig{
		Engine: redaction.EngineConfig{
			AbsoluteMaxSize:     cfg.Redaction.AbsoluteMaxSize,
			AdversarialDefense:  cfg.Redaction.AdversarialDefense,
			PluginsEnabled:      cfg.Redaction.PluginsEnabled,
			ConfidenceThreshold: cfg.Redaction.Engine.ConfidenceThreshold,
			IgnoredTerms:        cfg.Redaction.Engine.IgnoredTerms,
			IgnoredPatterns:     cfg.Redaction.Engine.IgnoredPatterns,
		},
		PoliciesDir:     cfg.Redaction.PoliciesDir,
		PatternsDir:     cfg.Redaction.PatternsDir,
		DictionariesDir: cfg.Redaction.DictionariesDir,
		PluginTimeout:   int64(hookTimeout),
	}, logger)
}
