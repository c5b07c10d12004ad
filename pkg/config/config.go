package config

import (
	"fmt"
	"time"

	"alpha-hq/alpha/pkg/audit/retention"
	"alpha-hq/alpha/pkg/rollout"
	"alpha-hq/alpha/pkg/telemetry/logging"
	"alpha-hq/alpha/pkg/telemetry/metrics"
)

// Config is the root configuration for the hardening pipeline.
type Config struct {
	// Guardrail configures ruleset loading.
	Guardrail GuardrailConfig `yaml:"guardrail"`

	// Rollout configures the stage controller and default plan.
	Rollout RolloutConfig `yaml:"rollout"`

	// Approval configures the approval store.
	Approval ApprovalConfig `yaml:"approval"`

	// Audit configures the audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GuardrailConfig configures ruleset loading.
type GuardrailConfig struct {
	// RulesetDir is a directory of YAML ruleset files. Empty means only
	// the built-in default ruleset is available.
	RulesetDir string `yaml:"ruleset_dir"`

	// DefaultRuleset names the ruleset used when a command does not pick
	// one explicitly.
	DefaultRuleset string `yaml:"default_ruleset"`

	// Watch enables hot-reloading of the ruleset directory.
	Watch bool `yaml:"watch"`
}

// RolloutConfig configures stage execution.
type RolloutConfig struct {
	// Controller holds thresholds and retry budgets.
	Controller rollout.ControllerConfig `yaml:"controller"`

	// PauseBetween is the settle time between consecutive plan stages.
	PauseBetween time.Duration `yaml:"pause_between"`
}

// ApprovalConfig configures the approval store.
type ApprovalConfig struct {
	// Backend selects the store: "sqlite" or "memory".
	Backend string `yaml:"backend"`

	// SQLitePath is the approval database file for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`
}

// AuditConfig configures the audit trail.
type AuditConfig struct {
	// Backend selects the storage: "sqlite" or "memory".
	Backend string `yaml:"backend"`

	// SQLitePath is the audit database file for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`

	// Retention controls pruning of old records.
	Retention retention.Config `yaml:"retention"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	Logging logging.Config `yaml:"logging"`
	Metrics metrics.Config `yaml:"metrics"`

	// MetricsListen is the address of the Prometheus scrape endpoint.
	// Empty disables the endpoint.
	MetricsListen string `yaml:"metrics_listen"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Guardrail: GuardrailConfig{
			DefaultRuleset: "default",
		},
		Rollout: RolloutConfig{
			Controller:   rollout.DefaultControllerConfig(),
			PauseBetween: 5 * time.Minute,
		},
		Approval: ApprovalConfig{
			Backend:    "sqlite",
			SQLitePath: "alpha-approvals.db",
		},
		Audit: AuditConfig{
			Backend:    "sqlite",
			SQLitePath: "alpha-audit.db",
			Retention:  retention.DefaultConfig(),
		},
		Telemetry: TelemetryConfig{
			Logging: logging.DefaultConfig(),
			Metrics: metrics.DefaultConfig(),
		},
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Rollout.Controller.Validate(); err != nil {
		return err
	}
	if c.Rollout.PauseBetween < 0 {
		return fmt.Errorf("rollout.pause_between cannot be negative")
	}
	switch c.Approval.Backend {
	case "sqlite":
		if c.Approval.SQLitePath == "" {
			return fmt.Errorf("approval.sqlite_path is required for the sqlite backend")
		}
	case "memory":
	default:
		return fmt.Errorf("approval.backend must be %q or %q, got %q", "sqlite", "memory", c.Approval.Backend)
	}
	switch c.Audit.Backend {
	case "sqlite":
		if c.Audit.SQLitePath == "" {
			return fmt.Errorf("audit.sqlite_path is required for the sqlite backend")
		}
	case "memory":
	default:
		return fmt.Errorf("audit.backend must be %q or %q, got %q", "sqlite", "memory", c.Audit.Backend)
	}
	if err := c.Audit.Retention.Validate(); err != nil {
		return err
	}
	return nil
}
