package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies environment variable
// overrides, and validates the result. An empty path returns the defaults
// with overrides applied.
//
// Environment variables use the ALPHA_SECTION_FIELD convention, e.g.
// ALPHA_AUDIT_SQLITE_PATH, and always take precedence over the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies ALPHA_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ALPHA_GUARDRAIL_RULESET_DIR"); val != "" {
		cfg.Guardrail.RulesetDir = val
	}
	if val := os.Getenv("ALPHA_GUARDRAIL_DEFAULT_RULESET"); val != "" {
		cfg.Guardrail.DefaultRuleset = val
	}
	if val := os.Getenv("ALPHA_GUARDRAIL_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Guardrail.Watch = b
		}
	}

	if val := os.Getenv("ALPHA_ROLLOUT_PAUSE_BETWEEN"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Rollout.PauseBetween = d
		}
	}
	if val := os.Getenv("ALPHA_ROLLOUT_SANDBOX_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Rollout.Controller.Thresholds.Sandbox = f
		}
	}
	if val := os.Getenv("ALPHA_ROLLOUT_CANARY_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Rollout.Controller.Thresholds.Canary = f
		}
	}
	if val := os.Getenv("ALPHA_ROLLOUT_TARGET_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Rollout.Controller.Thresholds.Target = f
		}
	}
	if val := os.Getenv("ALPHA_ROLLOUT_MAX_ATTEMPTS"); val != "" {
		if i, err := strconv.ParseUint(val, 10, 32); err == nil {
			cfg.Rollout.Controller.MaxAttempts = uint(i)
		}
	}

	if val := os.Getenv("ALPHA_APPROVAL_BACKEND"); val != "" {
		cfg.Approval.Backend = val
	}
	if val := os.Getenv("ALPHA_APPROVAL_SQLITE_PATH"); val != "" {
		cfg.Approval.SQLitePath = val
	}

	if val := os.Getenv("ALPHA_AUDIT_BACKEND"); val != "" {
		cfg.Audit.Backend = val
	}
	if val := os.Getenv("ALPHA_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLitePath = val
	}
	if val := os.Getenv("ALPHA_AUDIT_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Audit.Retention.RetentionDays = i
		}
	}

	if val := os.Getenv("ALPHA_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("ALPHA_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("ALPHA_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("ALPHA_TELEMETRY_METRICS_LISTEN"); val != "" {
		cfg.Telemetry.MetricsListen = val
	}
}
