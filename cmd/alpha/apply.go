package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"alpha-hq/alpha/pkg/audit"
	"alpha-hq/alpha/pkg/cli"
	"alpha-hq/alpha/pkg/config"
	"alpha-hq/alpha/pkg/policy/diff"
	"alpha-hq/alpha/pkg/policy/guardrail"
	"alpha-hq/alpha/pkg/rollout"
	"alpha-hq/alpha/pkg/telemetry/metrics"
)

var applyFlags struct {
	identity     string
	identityFile string
	file         string
	ruleset      string
	stages       string
	pause        time.Duration
	description  string
	metricsURL   string
	commit       bool
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run the full hardening pipeline against an identity",
	Long: `Apply sanitizes the proposed policy, shows the action-level diff
against the identity's effective policy, and rolls the hardened policy
out through the requested stages.

Canary and target stages require an approval on record (see
"alpha approve"). A stage that misses its health gate halts the rollout;
the trial revision is always detached, success or failure.

Examples:
  # Full pipeline, all stages
  alpha apply --identity ci-deployer --identity-file identities.json --file hardened.json

  # Dry-run and sandbox only, no settle pause
  alpha apply --identity ci-deployer --file hardened.json --stages dry-run,sandbox --pause 0

  # Observe real health metrics and commit after a successful target stage
  alpha apply --identity ci-deployer --file hardened.json \
      --metrics-url http://health.internal/metrics.json --commit`,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVar(&applyFlags.identity, "identity", "", "identity to harden (required)")
	applyCmd.Flags().StringVar(&applyFlags.identityFile, "identity-file", "", "identity seed file")
	applyCmd.Flags().StringVarP(&applyFlags.file, "file", "f", "", "proposed policy file (required)")
	applyCmd.Flags().StringVar(&applyFlags.ruleset, "ruleset", "", "ruleset name (default from config)")
	applyCmd.Flags().StringVar(&applyFlags.stages, "stages", "", "comma-separated stages to run (default: all)")
	applyCmd.Flags().DurationVar(&applyFlags.pause, "pause", -1, "settle time between stages (default from config)")
	applyCmd.Flags().StringVar(&applyFlags.description, "description", "", "proposal rationale, recorded with every stage")
	applyCmd.Flags().StringVar(&applyFlags.metricsURL, "metrics-url", "", "HTTP endpoint returning health metrics as JSON")
	applyCmd.Flags().BoolVar(&applyFlags.commit, "commit", false, "commit the policy after a successful target stage")
	applyCmd.MarkFlagRequired("identity")
	applyCmd.MarkFlagRequired("file")
}

// applyResult is the JSON output shape of the apply command.
type applyResult struct {
	Identity   string                `json:"identity"`
	Violations []guardrail.Violation `json:"violations"`
	Diff       diff.PolicyDiff       `json:"diff"`
	Outcomes   []rollout.Outcome     `json:"outcomes"`
	Committed  bool                  `json:"committed"`
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cli.SignalContext()

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
	rs, err := resolveRuleset(cfg, registry, applyFlags.ruleset)
	if err != nil {
		return err
	}

	proposed, err := readDocument(applyFlags.file)
	if err != nil {
		return err
	}
	store, err := seedIdentityStore(applyFlags.identityFile)
	if err != nil {
		return err
	}
	if applyFlags.identityFile == "" {
		// No seed file: model the identity as having no current policies.
		store.Seed(applyFlags.identity, nil, nil)
	}

	plan, err := buildPlan(cfg)
	if err != nil {
		return err
	}

	approvals, err := openApprovals(cfg)
	if err != nil {
		return err
	}
	defer approvals.Close()
	storage, recorder, err := openAudit(cfg, logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
	if cfg.Telemetry.MetricsListen != "" {
		go serveMetrics(cfg.Telemetry.MetricsListen, collector, logger)
	}

	// Sanitize.
	engine := guardrail.NewEngine(logger)
	sanitized, violations := engine.Sanitize(proposed, rs)
	byCode := make(map[string]int)
	for _, v := range violations {
		byCode[string(v.Code)]++
	}
	collector.RecordSanitize(byCode)
	recorder.Record(ctx, audit.Record{
		Identity:    applyFlags.identity,
		Step:        "sanitize",
		Ruleset:     rs.Name,
		Violations:  len(violations),
		Succeeded:   true,
		Description: applyFlags.description,
	})

	// Diff against the identity's effective policy.
	effective, err := diff.ComposeEffectivePolicy(ctx, store, applyFlags.identity)
	if err != nil {
		return err
	}
	policyDiff := diff.Compute(&effective, sanitized)
	recorder.Record(ctx, audit.Record{
		Identity:    applyFlags.identity,
		Step:        "diff",
		DiffSummary: policyDiff.Summary,
		Succeeded:   true,
		Description: applyFlags.description,
	})

	// Roll out.
	controller, err := rollout.NewController(store, cfg.Rollout.Controller, logger, collector)
	if err != nil {
		return err
	}
	orchestrator := rollout.NewOrchestrator(controller, approvals, recorder, logger)

	var collect rollout.MetricsCollector
	if applyFlags.metricsURL != "" {
		collect = rollout.HTTPMetrics(applyFlags.metricsURL, nil)
	}

	outcomes, err := orchestrator.Run(ctx, applyFlags.identity, sanitized, plan, collect, applyFlags.description)
	if err != nil {
		printApply(violations, policyDiff, outcomes, false)
		return err
	}

	committed := false
	if applyFlags.commit && rolloutSucceeded(plan, outcomes) {
		if err := store.CommitPolicy(ctx, applyFlags.identity, sanitized); err != nil {
			return err
		}
		committed = true
		logger.Info("policy committed", "identity", applyFlags.identity)
	}

	printApply(violations, policyDiff, outcomes, committed)

	if len(outcomes) > 0 && !outcomes[len(outcomes)-1].Succeeded {
		os.Exit(cli.ExitStageFailed)
	}
	return nil
}

// buildPlan derives the rollout plan from the --stages and --pause flags.
func buildPlan(cfg *config.Config) (rollout.Plan, error) {
	plan := rollout.Plan{
		Stages:       rollout.Stages(),
		PauseBetween: cfg.Rollout.PauseBetween,
	}
	if applyFlags.pause >= 0 {
		plan.PauseBetween = applyFlags.pause
	}
	if applyFlags.stages != "" {
		plan.Stages = plan.Stages[:0]
		for _, name := range strings.Split(applyFlags.stages, ",") {
			stage, err := rollout.ParseStage(strings.TrimSpace(name))
			if err != nil {
				return rollout.Plan{}, err
			}
			plan.Stages = append(plan.Stages, stage)
		}
	}
	return plan, nil
}

// rolloutSucceeded reports whether the plan ran its target stage to success.
func rolloutSucceeded(plan rollout.Plan, outcomes []rollout.Outcome) bool {
	for _, outcome := range outcomes {
		if outcome.Stage == rollout.StageTarget && outcome.Succeeded {
			return true
		}
	}
	return false
}

// printApply renders the pipeline result.
func printApply(violations []guardrail.Violation, policyDiff diff.PolicyDiff, outcomes []rollout.Outcome, committed bool) {
	if outputFormat == "json" {
		cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, applyResult{
			Identity:   applyFlags.identity,
			Violations: violations,
			Diff:       policyDiff,
			Outcomes:   outcomes,
			Committed:  committed,
		})
		return
	}

	fmt.Printf("identity: %s\n", applyFlags.identity)
	fmt.Printf("violations: %d\n", len(violations))
	for _, v := range violations {
		fmt.Printf("  %s %s: %s\n", v.Code, v.Path, v.Message)
	}
	fmt.Printf("diff: %s\n", policyDiff.Summary)
	for _, outcome := range outcomes {
		status := "ok"
		if !outcome.Succeeded {
			status = "FAILED"
		}
		line := fmt.Sprintf("stage %-8s %s", outcome.Stage, status)
		if outcome.FailedOpen {
			line += " (metrics unavailable, failed open)"
		}
		if outcome.Err != "" {
			line += ": " + outcome.Err
		}
		fmt.Println(line)
	}
	if committed {
		fmt.Println("policy committed")
	}
}

// serveMetrics exposes the Prometheus scrape endpoint for the run.
func serveMetrics(addr string, collector *metrics.Collector, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics endpoint failed", "addr", addr, "error", err)
	}
}
