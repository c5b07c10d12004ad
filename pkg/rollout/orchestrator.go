package rollout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"alpha-hq/alpha/pkg/approval"
	"alpha-hq/alpha/pkg/audit"
	"alpha-hq/alpha/pkg/policy"
)

// Plan describes which stages to run and how long to pause between them.
type Plan struct {
	// Stages are executed in order. They must be sorted by stage order;
	// skipping a stage is allowed, reordering is not.
	Stages []Stage `yaml:"stages"`

	// PauseBetween is the settle time between consecutive stages, giving
	// the trial a window to influence the health metrics.
	PauseBetween time.Duration `yaml:"pause_between"`
}

// DefaultPlan runs every stage in order with a five-minute settle window.
func DefaultPlan() Plan {
	return Plan{
		Stages:       Stages(),
		PauseBetween: 5 * time.Minute,
	}
}

// Validate checks the plan.
func (p Plan) Validate() error {
	if len(p.Stages) == 0 {
		return &ConfigError{Field: "stages", Message: "plan has no stages"}
	}
	for i := 1; i < len(p.Stages); i++ {
		if p.Stages[i] <= p.Stages[i-1] {
			return &ConfigError{Field: "stages", Message: "stages must be in ascending order"}
		}
	}
	if p.PauseBetween < 0 {
		return &ConfigError{Field: "pause_between", Message: "cannot be negative"}
	}
	return nil
}

// Orchestrator sequences rollout stages for a proposal: it enforces the
// approval gate before Canary and Target, halts on the first failed stage,
// serializes concurrent rollouts for the same identity, and writes an audit
// record per stage.
//
// The orchestrator never commits a policy. After a successful Target stage
// the caller decides whether to invoke the identity store's CommitPolicy.
type Orchestrator struct {
	controller *Controller
	approvals  approval.Store
	recorder   *audit.Recorder
	logger     *slog.Logger

	// locks serializes stage execution per identity. Concurrent stages for
	// the same identity would race on the trial attachment slot.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewOrchestrator creates an orchestrator. The approval store may be nil
// only when no plan stage requires approval; the recorder may be nil to
// disable auditing.
func NewOrchestrator(controller *Controller, approvals approval.Store, recorder *audit.Recorder, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		controller: controller,
		approvals:  approvals,
		recorder:   recorder,
		logger:     logger.With("component", "rollout.orchestrator"),
		locks:      make(map[string]*sync.Mutex),
	}
}

// Run executes the plan's stages in order against the identity. It returns
// the outcome of every stage that ran. The error is non-nil for
// infrastructure faults, missing approvals, and invalid input; a stage that
// failed its health gate halts the run with a nil error, leaving the
// failure visible in the last outcome.
func (o *Orchestrator) Run(ctx context.Context, identityName string, doc policy.Document, plan Plan, collect MetricsCollector, description string) ([]Outcome, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	lock := o.identityLock(identityName)
	lock.Lock()
	defer lock.Unlock()

	var outcomes []Outcome
	for i, stage := range plan.Stages {
		if stage.RequiresApproval() {
			if err := o.checkApproval(ctx, identityName, stage); err != nil {
				return outcomes, err
			}
		}

		started := time.Now()
		outcome, err := o.controller.ExecuteStage(ctx, identityName, doc, stage, collect, description)
		outcomes = append(outcomes, outcome)
		o.record(ctx, identityName, description, started, outcome)

		if err != nil {
			return outcomes, err
		}
		if stage.Mutates() && !outcome.Succeeded {
			o.logger.Warn("rollout halted",
				"identity", identityName,
				"stage", stage.String(),
			)
			return outcomes, nil
		}

		if plan.PauseBetween > 0 && i < len(plan.Stages)-1 {
			select {
			case <-ctx.Done():
				return outcomes, ctx.Err()
			case <-time.After(plan.PauseBetween):
			}
		}
	}

	o.logger.Info("rollout plan complete",
		"identity", identityName,
		"stages", len(outcomes),
	)
	return outcomes, nil
}

// checkApproval enforces the human-approval gate. The proposal identifier
// is the identity itself.
func (o *Orchestrator) checkApproval(ctx context.Context, identityName string, stage Stage) error {
	if o.approvals == nil {
		return &ApprovalRequiredError{Identity: identityName, Stage: stage}
	}
	latest, err := o.approvals.Latest(ctx, identityName)
	if err != nil {
		return err
	}
	if latest == nil || !latest.Approved {
		return &ApprovalRequiredError{Identity: identityName, Stage: stage}
	}
	o.logger.Info("approval gate passed",
		"identity", identityName,
		"stage", stage.String(),
		"approver", latest.Approver,
	)
	return nil
}

// record writes the stage's audit record, if auditing is enabled.
func (o *Orchestrator) record(ctx context.Context, identityName, description string, started time.Time, outcome Outcome) {
	if o.recorder == nil {
		return
	}
	o.recorder.Record(ctx, audit.Record{
		Identity:    identityName,
		Step:        outcome.Stage.String(),
		Succeeded:   outcome.Succeeded,
		Error:       outcome.Err,
		ErrorRate:   outcome.Metrics[ErrorRateMetric],
		FailedOpen:  outcome.FailedOpen,
		Description: description,
		StartedAt:   started,
	})
}

// identityLock returns the mutex guarding the identity's trial slot.
func (o *Orchestrator) identityLock(identityName string) *sync.Mutex {
	o.locksMu.Lock()
	defer o.locksMu.Unlock()
	lock, ok := o.locks[identityName]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[identityName] = lock
	}
	return lock
}
