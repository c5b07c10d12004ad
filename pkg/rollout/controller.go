package rollout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"alpha-hq/alpha/pkg/identity"
	"alpha-hq/alpha/pkg/policy"
)

// ErrorRateMetric is the health metric every collector must supply. A
// missing key reads as zero.
const ErrorRateMetric = "error_rate"

// Observer receives controller telemetry events. Implementations must be
// safe for concurrent use.
type Observer interface {
	// StageExecuted is called once per ExecuteStage call.
	StageExecuted(stage Stage, succeeded bool, duration time.Duration)

	// CollectorFailedOpen is called when the metrics collector was
	// unreachable and a neutral reading was substituted.
	CollectorFailedOpen(stage Stage)
}

// Controller executes individual rollout stages. It is stateless across
// calls and safe for concurrent use on different identities; concurrent
// calls for the same identity race on the trial attachment slot and must be
// serialized by the caller (the Orchestrator does this).
type Controller struct {
	store    identity.Store
	config   ControllerConfig
	logger   *slog.Logger
	observer Observer
}

// NewController creates a stage controller. The observer may be nil.
func NewController(store identity.Store, config ControllerConfig, logger *slog.Logger, observer Observer) (*Controller, error) {
	if store == nil {
		return nil, &ConfigError{Field: "store", Message: "identity store cannot be nil"}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:    store,
		config:   config,
		logger:   logger.With("component", "rollout"),
		observer: observer,
	}, nil
}

// ExecuteStage runs one stage as an atomic attach -> observe -> evaluate ->
// detach unit.
//
// The returned Outcome is always populated. The error is non-nil only for
// unexpected infrastructure faults (*StageFault from attach or detach);
// a health-gate miss is Succeeded == false with a nil error. The trial
// revision attached in step 1 is detached on every exit path.
func (c *Controller) ExecuteStage(ctx context.Context, identityName string, doc policy.Document, stage Stage, collect MetricsCollector, description string) (outcome Outcome, err error) {
	start := time.Now()
	outcome = Outcome{Stage: stage, Metrics: map[string]float64{}}
	defer func() {
		if c.observer != nil {
			c.observer.StageExecuted(stage, outcome.Succeeded, time.Since(start))
		}
	}()

	if err := doc.Validate(); err != nil {
		outcome.Err = err.Error()
		return outcome, err
	}

	// DryRun is terminal and mutation-free: no trial attachment, no health
	// gate. It exists so callers can preview the full call path.
	if !stage.Mutates() {
		outcome.Succeeded = true
		c.logger.Info("dry-run stage complete", "identity", identityName)
		return outcome, nil
	}

	// Acquire: the only place this controller mutates the live identity,
	// always scoped to this single call.
	handle, attachErr := c.attach(ctx, identityName, doc, description)
	if attachErr != nil {
		fault := &StageFault{Op: "attach", Stage: stage, Identity: identityName, Err: attachErr}
		outcome.Err = fault.Error()
		return outcome, fault
	}
	c.logger.Info("trial revision attached",
		"identity", identityName,
		"stage", stage.String(),
		"revision", handle.Name,
	)

	// Release: unconditional, on every exit path. The detach context is
	// decoupled from the caller's so cancellation cannot leak a trial
	// attachment.
	defer func() {
		detachErr := c.detach(context.WithoutCancel(ctx), identityName, handle)
		if detachErr == nil {
			c.logger.Info("trial revision detached",
				"identity", identityName,
				"revision", handle.Name,
			)
			return
		}
		fault := &StageFault{Op: "detach", Stage: stage, Identity: identityName, Err: detachErr}
		outcome.Succeeded = false
		if outcome.Err == "" {
			outcome.Err = fault.Error()
		} else {
			outcome.Err = outcome.Err + "; " + fault.Error()
		}
		if err == nil {
			err = fault
		}
	}()

	// Observe. An unreachable collector must never block or spuriously
	// fail a stage: substitute a neutral reading and surface a warning.
	metrics, failedOpen := c.observe(ctx, stage, collect)
	outcome.Metrics = metrics
	outcome.FailedOpen = failedOpen

	// Evaluate: strictly less-than, equal to the threshold is a failure.
	threshold, gated := c.config.Thresholds.For(stage)
	errorRate := metrics[ErrorRateMetric]
	if gated && errorRate >= threshold {
		outcome.Succeeded = false
		outcome.Err = fmt.Sprintf("stage %s failed health checks: %s=%g (threshold %g)",
			stage, ErrorRateMetric, errorRate, threshold)
		c.logger.Warn("stage failed health checks",
			"identity", identityName,
			"stage", stage.String(),
			"error_rate", errorRate,
			"threshold", threshold,
		)
		return outcome, nil
	}

	outcome.Succeeded = true
	return outcome, nil
}

// attach creates the trial revision with a bounded retry budget.
func (c *Controller) attach(ctx context.Context, identityName string, doc policy.Document, description string) (identity.RevisionHandle, error) {
	return backoff.Retry(ctx, func() (identity.RevisionHandle, error) {
		return c.store.AttachTrialPolicy(ctx, identityName, doc, description)
	}, c.retryOptions()...)
}

// detach removes the trial revision with a bounded retry budget.
func (c *Controller) detach(ctx context.Context, identityName string, handle identity.RevisionHandle) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, c.store.DetachTrialPolicy(ctx, identityName, handle)
	}, c.retryOptions()...)
	return err
}

// observe collects health metrics, retrying transient errors and failing
// open to a neutral reading when the collector stays unreachable.
func (c *Controller) observe(ctx context.Context, stage Stage, collect MetricsCollector) (map[string]float64, bool) {
	if collect == nil {
		collect = StaticMetrics(map[string]float64{ErrorRateMetric: 0})
	}
	metrics, err := backoff.Retry(ctx, func() (map[string]float64, error) {
		return collect()
	}, c.retryOptions()...)
	if err == nil && metrics != nil {
		return metrics, false
	}

	c.logger.Warn("metrics collector unreachable, failing open",
		"stage", stage.String(),
		"error", err,
	)
	if c.observer != nil {
		c.observer.CollectorFailedOpen(stage)
	}
	return map[string]float64{ErrorRateMetric: 0}, true
}

// retryOptions builds the per-call retry budget.
func (c *Controller) retryOptions() []backoff.RetryOption {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.RetryInitialInterval
	return []backoff.RetryOption{
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(c.config.MaxAttempts),
	}
}
