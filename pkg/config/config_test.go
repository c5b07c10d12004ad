package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration is invalid: %v", err)
	}
	if cfg.Guardrail.DefaultRuleset != "default" {
		t.Errorf("DefaultRuleset = %q, want default", cfg.Guardrail.DefaultRuleset)
	}
	if cfg.Rollout.PauseBetween != 5*time.Minute {
		t.Errorf("PauseBetween = %v, want 5m", cfg.Rollout.PauseBetween)
	}
	if cfg.Approval.Backend != "sqlite" || cfg.Audit.Backend != "sqlite" {
		t.Errorf("backends = %q/%q, want sqlite/sqlite", cfg.Approval.Backend, cfg.Audit.Backend)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative pause", func(c *Config) { c.Rollout.PauseBetween = -time.Second }},
		{"unknown approval backend", func(c *Config) { c.Approval.Backend = "postgres" }},
		{"sqlite approval without path", func(c *Config) { c.Approval.SQLitePath = "" }},
		{"unknown audit backend", func(c *Config) { c.Audit.Backend = "postgres" }},
		{"sqlite audit without path", func(c *Config) { c.Audit.SQLitePath = "" }},
		{"negative retention", func(c *Config) { c.Audit.Retention.RetentionDays = -1 }},
		{"zero sandbox threshold", func(c *Config) { c.Rollout.Controller.Thresholds.Sandbox = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid configuration")
			}
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alpha.yaml")
	content := `
guardrail:
  default_ruleset: staging
  watch: true
rollout:
  pause_between: 30s
  controller:
    thresholds:
      canary: 0.015
approval:
  backend: memory
audit:
  sqlite_path: /var/lib/alpha/audit.db
  retention:
    retention_days: 30
telemetry:
  metrics_listen: ":9102"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Guardrail.DefaultRuleset != "staging" || !cfg.Guardrail.Watch {
		t.Errorf("guardrail = %+v", cfg.Guardrail)
	}
	if cfg.Rollout.PauseBetween != 30*time.Second {
		t.Errorf("PauseBetween = %v, want 30s", cfg.Rollout.PauseBetween)
	}
	if cfg.Rollout.Controller.Thresholds.Canary != 0.015 {
		t.Errorf("canary threshold = %g, want 0.015", cfg.Rollout.Controller.Thresholds.Canary)
	}
	// Fields the file omits keep their defaults.
	if cfg.Rollout.Controller.Thresholds.Sandbox != 0.05 {
		t.Errorf("sandbox threshold = %g, want the 0.05 default", cfg.Rollout.Controller.Thresholds.Sandbox)
	}
	if cfg.Approval.Backend != "memory" {
		t.Errorf("approval backend = %q, want memory", cfg.Approval.Backend)
	}
	if cfg.Audit.SQLitePath != "/var/lib/alpha/audit.db" || cfg.Audit.Retention.RetentionDays != 30 {
		t.Errorf("audit = %+v", cfg.Audit)
	}
	if cfg.Telemetry.MetricsListen != ":9102" {
		t.Errorf("MetricsListen = %q, want :9102", cfg.Telemetry.MetricsListen)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ALPHA_GUARDRAIL_DEFAULT_RULESET", "prod")
	t.Setenv("ALPHA_ROLLOUT_PAUSE_BETWEEN", "1m")
	t.Setenv("ALPHA_ROLLOUT_TARGET_THRESHOLD", "0.005")
	t.Setenv("ALPHA_APPROVAL_BACKEND", "memory")
	t.Setenv("ALPHA_AUDIT_SQLITE_PATH", "/tmp/audit.db")
	t.Setenv("ALPHA_AUDIT_RETENTION_DAYS", "7")
	t.Setenv("ALPHA_TELEMETRY_METRICS_ENABLED", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Guardrail.DefaultRuleset != "prod" {
		t.Errorf("DefaultRuleset = %q, want prod", cfg.Guardrail.DefaultRuleset)
	}
	if cfg.Rollout.PauseBetween != time.Minute {
		t.Errorf("PauseBetween = %v, want 1m", cfg.Rollout.PauseBetween)
	}
	if cfg.Rollout.Controller.Thresholds.Target != 0.005 {
		t.Errorf("target threshold = %g, want 0.005", cfg.Rollout.Controller.Thresholds.Target)
	}
	if cfg.Approval.Backend != "memory" {
		t.Errorf("approval backend = %q, want memory", cfg.Approval.Backend)
	}
	if cfg.Audit.SQLitePath != "/tmp/audit.db" || cfg.Audit.Retention.RetentionDays != 7 {
		t.Errorf("audit = %+v", cfg.Audit)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics still enabled after ALPHA_TELEMETRY_METRICS_ENABLED=false")
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alpha.yaml")
	if err := os.WriteFile(path, []byte("guardrail:\n  default_ruleset: from-file\n"), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("ALPHA_GUARDRAIL_DEFAULT_RULESET", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Guardrail.DefaultRuleset != "from-env" {
		t.Errorf("DefaultRuleset = %q, env must beat the file", cfg.Guardrail.DefaultRuleset)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("Load accepted a missing file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		if err := os.WriteFile(path, []byte("guardrail: ["), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load accepted malformed YAML")
		}
	})

	t.Run("invalid after merge", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invalid.yaml")
		if err := os.WriteFile(path, []byte("approval:\n  backend: postgres\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load accepted an unknown approval backend")
		}
	})
}
