// Command ralbench evaluates reasoning strategies against benchmarks by
// driving remote LLM providers and scoring their answers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes, per spec.md §6 / SPEC_FULL.md §7.
const (
	exitOK                  = 0
	exitGeneralError        = 1
	exitConfigurationError  = 2
	exitNotFound            = 3
	exitAuthenticationError = 4
	exitInterrupted         = 130
)

var configDir string

var rootCmd = &cobra.Command{
	Use:          "ralbench",
	Short:        "Evaluate reasoning strategies against benchmarks using remote LLMs",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", getEnv("CONFIG_DIR", "./config"), "path to configuration directory")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(healthCmd)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
