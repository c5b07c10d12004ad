package rollout

import (
	"fmt"
	"time"
)

// Thresholds holds the per-stage health thresholds. A stage succeeds only if
// the observed error_rate is strictly below its threshold; equality fails.
// The defaults are compatibility constants, but they are policy rather than
// physics and deployments may tune them.
type Thresholds struct {
	Sandbox float64 `yaml:"sandbox"`
	Canary  float64 `yaml:"canary"`
	Target  float64 `yaml:"target"`
}

// DefaultThresholds returns the compatibility defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Sandbox: 0.05,
		Canary:  0.02,
		Target:  0.01,
	}
}

// Validate checks the thresholds for configuration mistakes.
func (t Thresholds) Validate() error {
	for _, stage := range []struct {
		name  string
		value float64
	}{
		{"sandbox", t.Sandbox},
		{"canary", t.Canary},
		{"target", t.Target},
	} {
		if stage.value <= 0 || stage.value > 1 {
			return &ConfigError{
				Field:   "thresholds." + stage.name,
				Message: fmt.Sprintf("must be in (0, 1], got %g", stage.value),
			}
		}
	}
	return nil
}

// For returns the threshold for a stage. The second return is false for
// stages without a health gate (DryRun).
func (t Thresholds) For(stage Stage) (float64, bool) {
	switch stage {
	case StageSandbox:
		return t.Sandbox, true
	case StageCanary:
		return t.Canary, true
	case StageTarget:
		return t.Target, true
	default:
		return 0, false
	}
}

// ControllerConfig configures the stage controller.
type ControllerConfig struct {
	// Thresholds are the per-stage health gates.
	Thresholds Thresholds `yaml:"thresholds"`

	// MaxAttempts bounds retries of each collaborator call (attach,
	// metrics, detach). After MaxAttempts the call is fatal for the stage.
	MaxAttempts uint `yaml:"max_attempts"`

	// RetryInitialInterval is the first backoff delay between attempts.
	RetryInitialInterval time.Duration `yaml:"retry_initial_interval"`
}

// DefaultControllerConfig returns the default controller configuration.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		Thresholds:           DefaultThresholds(),
		MaxAttempts:          3,
		RetryInitialInterval: 100 * time.Millisecond,
	}
}

// Validate checks the configuration.
func (c ControllerConfig) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.MaxAttempts == 0 {
		return &ConfigError{Field: "max_attempts", Message: "must be at least 1"}
	}
	if c.RetryInitialInterval <= 0 {
		return &ConfigError{Field: "retry_initial_interval", Message: "must be positive"}
	}
	return nil
}
