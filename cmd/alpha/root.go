package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alpha-hq/alpha/pkg/cli"
)

var (
	// Global flags
	cfgFile      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "alpha",
	Short: "Alpha - guarded IAM policy hardening pipeline",
	Long: `Alpha hardens IAM policies through a guarded, staged rollout pipeline.

It provides:
  - Guardrail sanitization (wildcard removal, blocked actions, required
    conditions, service restrictions)
  - Action-level policy diffs against the identity's effective policy
  - Staged rollout (dry-run, sandbox, canary, target) with health gates
  - Human approval gating for canary and target stages
  - A persistent audit trail of every pipeline step`,
	Version: Version,
}

// Execute runs the root command and exits with the mapped exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCodeFor(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", "text", "output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
