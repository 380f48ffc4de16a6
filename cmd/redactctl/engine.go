// Package main provides the redactctl CLI tool for managing redaction engines.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vulpes/redact/config"
)

var testPolicyName string

// engineCmd represents the engine command
var engineCmd = &cobra.Command{
	Use:   "engine",
	Short: "Inspect the redaction engine and its configuration",
	Long: `Inspect the redaction engine's effective configuration, enabled
pattern types, and loaded policies.`,
}

// enginePatternsCmd shows active pattern types
var enginePatternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List enabled identifier types for a policy",
	Long:  "Display the identifier types a policy enables and their configured strategy.",
	Run: func(_ *cobra.Command, _ []string) {
		runEnginePatterns()
	},
}

// enginePolicyCmd validates and prints a policy
var enginePolicyCmd = &cobra.Command{
	Use:   "policy [name]",
	Short: "Load and print a policy",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runEnginePolicy(args[0])
	},
}

func init() {
	rootCmd.AddCommand(engineCmd)
	engineCmd.AddCommand(enginePatternsCmd)
	engineCmd.AddCommand(enginePolicyCmd)

	enginePatternsCmd.Flags().StringVar(&testPolicyName, "policy", "default", "policy name to inspect")
}

func runEnginePatterns() {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	factory := newEngineFactory(cfg)
	policy, err := factory.LoadPolicy(testPolicyName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading policy %q: %v\n", testPolicyName, err)
		os.Exit(1)
	}

	types := policy.EnabledTypes()
	fmt.Printf("Enabled identifier types for policy %q (%d):\n", policy.Name, len(types))
	for i, t := range types {
		cfg := policy.ConfigFor(t)
		fmt.Printf("  %d. %-20s strategy=%s scope=%s\n", i+1, t, cfg.Strategy, cfg.Scope)
	}
}

func runEnginePolicy(name string) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	factory := newEngineFactory(cfg)
	policy, err := factory.LoadPolicy(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading policy %q: %v\n", name, err)
		os.Exit(1)
	}

	fmt.Printf("Policy: %s\n", policy.Name)
	for t, c := range policy.Identifiers {
		if c == nil {
			fmt.Printf("  %-20s enabled (default strategy)\n", t)
			continue
		}
		fmt.Printf("  %-20s enabled=%v strategy=%s scope=%s\n", t, c.Enabled, c.Strategy, c.Scope)
	}
}
