package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alpha-hq/alpha/pkg/audit"
	"alpha-hq/alpha/pkg/cli"
	"alpha-hq/alpha/pkg/policy"
	"alpha-hq/alpha/pkg/policy/diff"
)

var diffFlags struct {
	existing     string
	proposed     string
	identity     string
	identityFile string
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compute the action-level diff between two policies",
	Long: `Diff compares a proposed policy document against an existing one and
reports the action names that would be added or removed.

The existing side is either a file (--existing) or the effective policy
of a seeded identity (--identity with --identity-file). With neither,
the proposed policy is treated as entirely new.

Examples:
  # Diff two policy files
  alpha diff --existing current.json --proposed hardened.json

  # Diff against an identity's effective policy
  alpha diff --identity ci-deployer --identity-file identities.json --proposed hardened.json`,
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().StringVarP(&diffFlags.existing, "existing", "e", "", "existing policy file")
	diffCmd.Flags().StringVarP(&diffFlags.proposed, "proposed", "p", "", "proposed policy file (required)")
	diffCmd.Flags().StringVar(&diffFlags.identity, "identity", "", "identity whose effective policy is the existing side")
	diffCmd.Flags().StringVar(&diffFlags.identityFile, "identity-file", "", "identity seed file for --identity")
	diffCmd.MarkFlagRequired("proposed")
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	proposed, err := readDocument(diffFlags.proposed)
	if err != nil {
		return err
	}

	var existing *policy.Document
	switch {
	case diffFlags.existing != "" && diffFlags.identity != "":
		return fmt.Errorf("--existing and --identity are mutually exclusive")
	case diffFlags.existing != "":
		doc, err := readDocument(diffFlags.existing)
		if err != nil {
			return err
		}
		existing = &doc
	case diffFlags.identity != "":
		store, err := seedIdentityStore(diffFlags.identityFile)
		if err != nil {
			return err
		}
		doc, err := diff.ComposeEffectivePolicy(cmd.Context(), store, diffFlags.identity)
		if err != nil {
			return err
		}
		existing = &doc
	}

	result := diff.Compute(existing, proposed)

	storage, recorder, err := openAudit(cfg, logger)
	if err != nil {
		return err
	}
	defer storage.Close()
	recorder.Record(cmd.Context(), audit.Record{
		Identity:    diffFlags.identity,
		Step:        "diff",
		DiffSummary: result.Summary,
		Succeeded:   true,
	})

	if outputFormat == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, result)
	}

	fmt.Println(result.Summary)
	for _, a := range result.AddedActions {
		fmt.Printf("+ %s\n", a)
	}
	for _, a := range result.RemovedActions {
		fmt.Printf("- %s\n", a)
	}
	return nil
}
