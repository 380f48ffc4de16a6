package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vulpes/redact/config"
	"github.com/vulpes/redact/pkg/redaction"
)

var (
	inputFile       string
	outputFile      string
	outputFormat    string
	policyName      string
	showRedactStats bool
	batchMode       bool
	tokenMapFile    string
)

// redactCmd represents the redact command
var redactCmd = &cobra.Command{
	Use:   "redact [text]",
	Short: "Redact PII/PHI from text input",
	Long: `Redact personally identifiable information (PII) and protected health
information (PHI) from text input. Supports multiple input sources and output formats.

Examples:
  # Redact text from command line
  redactctl redact "Contact John Doe at john@example.com or 555-123-4567"

  # Redact from file
  redactctl redact --input document.txt --output redacted.txt

  # Redact from stdin with JSON output
  echo "SSN: 123-45-6789" | redactctl redact --format json

  # Show redaction statistics
  redactctl redact --input data.txt --stats`,
	Run: func(_ *cobra.Command, args []string) {
		runRedact(args)
	},
}

func init() {
	rootCmd.AddCommand(redactCmd)

	redactCmd.Flags().StringVarP(&inputFile, "input", "i", "", "input file (default: stdin)")
	redactCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	redactCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	redactCmd.Flags().StringVar(&policyName, "policy", "default", "policy name to load from the policies directory")
	redactCmd.Flags().BoolVar(&showRedactStats, "stats", false, "show redaction statistics")
	redactCmd.Flags().BoolVar(&batchMode, "batch", false, "process input in batch mode")
	redactCmd.Flags().StringVar(&tokenMapFile, "token-map", "", "write the token-to-original mapping to this file, for later restore")
}

func runRedact(args []string) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	factory := newEngineFactory(cfg)
	policy, err := factory.LoadPolicy(policyName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading policy %q: %v\n", policyName, err)
		os.Exit(1)
	}
	engine := factory.NewEngine()

	var inputText string
	switch {
	case len(args) > 0:
		inputText = strings.Join(args, " ")
	case inputFile != "":
		data, err := os.ReadFile(inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
		inputText = string(data)
	case batchMode:
		inputText = readBatchInput()
	default:
		inputText = readStdinInput()
	}

	session := redaction.NewRedactionContext(sessionSeed())
	redacted, err := engine.Redact(context.Background(), inputText, policy, session)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Redaction failed: %v\n", err)
		os.Exit(1)
	}

	if err := writeRedactOutput(redacted); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}

	if showRedactStats {
		printStatistics(session)
	}

	if tokenMapFile != "" {
		if err := writeTokenMap(session, tokenMapFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing token map: %v\n", err)
			os.Exit(1)
		}
	}
}

func writeTokenMap(session *redaction.RedactionContext, path string) error {
	data, err := json.MarshalIndent(session.Tokens.GetTokenMap(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func writeRedactOutput(redacted string) error {
	output := redacted
	if outputFormat == "json" {
		output = fmt.Sprintf(`{"redacted_text": %q}`, redacted)
	}

	if outputFile != "" {
		return os.WriteFile(outputFile, []byte(output), 0o644)
	}
	fmt.Print(output)
	if outputFormat == "text" {
		fmt.Println()
	}
	return nil
}

func readStdinInput() string {
	fmt.Fprintf(os.Stderr, "Reading from stdin (press Ctrl+D when done)...\n")
	return readAllLines()
}

func readBatchInput() string {
	return readAllLines()
}

func readAllLines() string {
	var lines []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
	return strings.Join(lines, "\n")
}

func printStatistics(session *redaction.RedactionContext) {
	stats := session.Stats.Snapshot()
	fmt.Fprintf(os.Stderr, "\nRedaction statistics:\n")
	fmt.Fprintf(os.Stderr, "=====================\n")
	fmt.Fprintf(os.Stderr, "Spans detected: %v\n", stats["spans_detected"])
	fmt.Fprintf(os.Stderr, "Spans applied:  %v\n", stats["spans_applied"])
	fmt.Fprintf(os.Stderr, "Spans dropped:  %v\n", stats["spans_dropped"])
}

// sessionSeed derives the date-shifting seed for a CLI invocation so a
// single process run gets a stable per-session date offset.
func sessionSeed() int64 {
	return int64(os.Getpid())
}
