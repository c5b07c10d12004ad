package rollout

import "fmt"

// ConfigError indicates invalid controller or plan configuration.
type ConfigError struct {
	Field   string
	Message string
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("rollout config: %s: %s", e.Field, e.Message)
}

// StageFault is an unexpected infrastructure fault during a stage: the
// attach or detach collaborator call failed after the retry budget. It is
// deliberately distinct from a health-check failure, which is an expected
// result carried in the Outcome.
type StageFault struct {
	// Op is the collaborator operation that failed ("attach" or "detach").
	Op string

	// Stage is the stage being executed.
	Stage Stage

	// Identity is the principal being rolled out to.
	Identity string

	// Err is the collaborator error.
	Err error
}

// Error returns the error message.
func (e *StageFault) Error() string {
	return fmt.Sprintf("rollout stage %s: %s failed for %s: %v", e.Stage, e.Op, e.Identity, e.Err)
}

// Unwrap returns the collaborator error.
func (e *StageFault) Unwrap() error {
	return e.Err
}

// ApprovalRequiredError indicates the orchestrator refused to run an
// approval-gated stage because no approved record exists for the proposal.
type ApprovalRequiredError struct {
	Identity string
	Stage    Stage
}

// Error returns the error message.
func (e *ApprovalRequiredError) Error() string {
	return fmt.Sprintf("stage %s for %s requires a recorded approval", e.Stage, e.Identity)
}
