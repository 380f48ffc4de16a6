package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vulpes/redact/pkg/redaction"
)

var (
	tokenMapIn string
	restoreOut string
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore [text]",
	Short: "Reinsert original values for redaction tokens in text",
	Long: `Restore original values into previously-redacted text using a
token map produced by "redactctl redact --token-map".

Examples:
  # Restore text read from a file, using a saved token map
  redactctl restore --input redacted.txt --token-map tokens.json

  # Restore text from stdin
  cat redacted.txt | redactctl restore --token-map tokens.json`,
	Run: func(_ *cobra.Command, args []string) {
		runRestore(args)
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().StringVar(&tokenMapIn, "token-map", "", "token-to-original mapping file produced by redact --token-map")
	restoreCmd.Flags().StringVarP(&inputFile, "input", "i", "", "input file containing redacted text (default: stdin)")
	restoreCmd.Flags().StringVarP(&restoreOut, "output", "o", "", "output file for restored text (default: stdout)")
	_ = restoreCmd.MarkFlagRequired("token-map")
}

func runRestore(args []string) {
	if tokenMapIn == "" {
		fmt.Fprintln(os.Stderr, "Error: --token-map is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(tokenMapIn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading token map: %v\n", err)
		os.Exit(1)
	}
	var tokenMap map[string]string
	if err := json.Unmarshal(data, &tokenMap); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing token map: %v\n", err)
		os.Exit(1)
	}

	var text string
	switch {
	case len(args) > 0:
		text = strings.Join(args, " ")
	case inputFile != "":
		raw, err := os.ReadFile(inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
		text = string(raw)
	default:
		text = readStdinInput()
	}

	tokens := redaction.NewTokenManager()
	for token, original := range tokenMap {
		tokens.StoreToken(token, original)
	}
	restored := tokens.Reinsert(text)

	if restoreOut != "" {
		if err := os.WriteFile(restoreOut, []byte(restored), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Restored text written to: %s\n", restoreOut)
		return
	}
	fmt.Print(restored)
}
