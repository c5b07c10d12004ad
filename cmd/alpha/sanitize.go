package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alpha-hq/alpha/pkg/audit"
	"alpha-hq/alpha/pkg/cli"
	"alpha-hq/alpha/pkg/policy"
	"alpha-hq/alpha/pkg/policy/guardrail"
)

var sanitizeFlags struct {
	file     string
	ruleset  string
	identity string
}

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize",
	Short: "Sanitize a policy document against a guardrail ruleset",
	Long: `Sanitize applies the guardrail rules to a policy document and prints
the hardened document together with the violations found.

Examples:
  # Sanitize with the default ruleset
  alpha sanitize --file policy.json

  # Sanitize with a named ruleset from the configured ruleset directory
  alpha sanitize --file policy.json --ruleset prod

  # Machine-readable output
  alpha sanitize --file policy.json --format json`,
	RunE: runSanitize,
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)

	sanitizeCmd.Flags().StringVarP(&sanitizeFlags.file, "file", "f", "", "policy file to sanitize (required)")
	sanitizeCmd.Flags().StringVar(&sanitizeFlags.ruleset, "ruleset", "", "ruleset name (default from config)")
	sanitizeCmd.Flags().StringVar(&sanitizeFlags.identity, "identity", "", "identity name for the audit record")
	sanitizeCmd.MarkFlagRequired("file")
}

// sanitizeResult is the JSON output shape of the sanitize command.
type sanitizeResult struct {
	Sanitized  policy.Document       `json:"sanitized"`
	Violations []guardrail.Violation `json:"violations"`
}

func runSanitize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	rs, err := resolveRuleset(cfg, registry, sanitizeFlags.ruleset)
	if err != nil {
		return err
	}

	doc, err := readDocument(sanitizeFlags.file)
	if err != nil {
		return err
	}

	engine := guardrail.NewEngine(logger)
	sanitized, violations := engine.Sanitize(doc, rs)

	storage, recorder, err := openAudit(cfg, logger)
	if err != nil {
		return err
	}
	defer storage.Close()
	recorder.Record(cmd.Context(), audit.Record{
		Identity:   sanitizeFlags.identity,
		Step:       "sanitize",
		Ruleset:    rs.Name,
		Violations: len(violations),
		Succeeded:  true,
	})

	if outputFormat == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, sanitizeResult{Sanitized: sanitized, Violations: violations})
	}

	for _, v := range violations {
		fmt.Fprintf(os.Stderr, "%s %s: %s\n", v.Code, v.Path, v.Message)
	}
	data, err := policy.EncodeIndent(sanitized)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
