package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"alpha-hq/alpha/pkg/audit"
	"alpha-hq/alpha/pkg/cli"
)

var statusFlags struct {
	identity string
	step     string
	failed   bool
	since    string
	limit    int
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Inspect the audit trail",
	Long: `Status queries the audit trail of pipeline runs, newest first.

Examples:
  # Everything recorded for one identity
  alpha status --identity ci-deployer

  # Failed rollout stages only
  alpha status --failed --step target

  # Recent activity
  alpha status --since 24h --limit 20`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusFlags.identity, "identity", "", "filter by identity")
	statusCmd.Flags().StringVar(&statusFlags.step, "step", "", "filter by pipeline step")
	statusCmd.Flags().BoolVar(&statusFlags.failed, "failed", false, "only failed steps")
	statusCmd.Flags().StringVar(&statusFlags.since, "since", "", "only records newer than this age, e.g. 24h")
	statusCmd.Flags().IntVar(&statusFlags.limit, "limit", 50, "maximum records to return (0 = no cap)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	storage, _, err := openAudit(cfg, logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	query := &audit.Query{
		Identity:   statusFlags.identity,
		Step:       statusFlags.step,
		OnlyFailed: statusFlags.failed,
		Limit:      statusFlags.limit,
	}
	if statusFlags.since != "" {
		age, err := time.ParseDuration(statusFlags.since)
		if err != nil {
			return fmt.Errorf("invalid --since value %q: %w", statusFlags.since, err)
		}
		since := time.Now().UTC().Add(-age)
		query.Since = &since
	}

	records, err := storage.Query(cmd.Context(), query)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Println("no matching audit records")
		return nil
	}
	for _, rec := range records {
		status := "ok"
		if !rec.Succeeded {
			status = "FAILED"
		}
		line := fmt.Sprintf("%s  %-12s %-9s %s",
			rec.RecordedAt.Format(time.RFC3339), rec.Identity, rec.Step, status)
		if rec.DiffSummary != "" {
			line += "  " + rec.DiffSummary
		}
		if rec.Violations > 0 {
			line += fmt.Sprintf("  %d violation(s)", rec.Violations)
		}
		if rec.FailedOpen {
			line += "  (failed open)"
		}
		if rec.Error != "" {
			line += "  " + rec.Error
		}
		fmt.Println(line)
	}
	return nil
}
