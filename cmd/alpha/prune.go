package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"alpha-hq/alpha/pkg/audit/retention"
)

var pruneFlags struct {
	days int
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete audit records older than the retention window",
	Long: `Prune deletes audit records older than the retention window
(audit.retention.retention_days in the config, overridable with --days).

Long-running deployments schedule this via the retention cron; the
command exists for one-shot and scripted use.`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().IntVar(&pruneFlags.days, "days", 0, "override the configured retention window")
}

func runPrune(cmd *cobra.Command, args []string) error {
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

	retentionCfg := cfg.Audit.Retention
	if pruneFlags.days > 0 {
		retentionCfg.RetentionDays = pruneFlags.days
	}
	pruner := retention.NewPruner(storage, retentionCfg, logger)
	deleted, err := pruner.Prune(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d audit record(s)\n", deleted)
	return nil
}
