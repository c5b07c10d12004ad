package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"alpha-hq/alpha/pkg/approval"
	"alpha-hq/alpha/pkg/cli"
)

var approveFlags struct {
	identity string
	approver string
	deny     bool
	comments string
	show     bool
}

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Record or inspect an approval decision",
	Long: `Approve records a human approval (or denial) for an identity's
hardening proposal. The canary and target stages run only when the
latest decision on record is an approval.

Examples:
  # Approve
  alpha approve --identity ci-deployer --approver alice --comments "reviewed diff"

  # Deny
  alpha approve --identity ci-deployer --approver alice --deny

  # Show the latest decision
  alpha approve --identity ci-deployer --show`,
	RunE: runApprove,
}

func init() {
	rootCmd.AddCommand(approveCmd)

	approveCmd.Flags().StringVar(&approveFlags.identity, "identity", "", "identity the decision applies to (required)")
	approveCmd.Flags().StringVar(&approveFlags.approver, "approver", "", "who is deciding")
	approveCmd.Flags().BoolVar(&approveFlags.deny, "deny", false, "record a denial instead of an approval")
	approveCmd.Flags().StringVar(&approveFlags.comments, "comments", "", "free-form decision notes")
	approveCmd.Flags().BoolVar(&approveFlags.show, "show", false, "show the latest decision instead of recording one")
	approveCmd.MarkFlagRequired("identity")
}

func runApprove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openApprovals(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if !approveFlags.show {
		if approveFlags.approver == "" {
			return fmt.Errorf("--approver is required when recording a decision")
		}
		rec := approval.Record{
			Approver:  approveFlags.approver,
			Approved:  !approveFlags.deny,
			Timestamp: time.Now().UTC(),
			Comments:  approveFlags.comments,
		}
		if err := store.Record(cmd.Context(), approveFlags.identity, rec); err != nil {
			return err
		}
	}

	latest, err := store.Latest(cmd.Context(), approveFlags.identity)
	if err != nil {
		return err
	}
	if latest == nil {
		fmt.Printf("no decision on record for %s\n", approveFlags.identity)
		return nil
	}

	if outputFormat == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, latest)
	}
	decision := "approved"
	if !latest.Approved {
		decision = "denied"
	}
	fmt.Printf("%s: %s by %s at %s\n", approveFlags.identity, decision,
		latest.Approver, latest.Timestamp.Format(time.RFC3339))
	if latest.Comments != "" {
		fmt.Printf("  %s\n", latest.Comments)
	}
	return nil
}
