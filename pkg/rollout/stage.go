package rollout

import "fmt"

// Stage is a rollout stage. Stages are totally ordered: DryRun < Sandbox <
// Canary < Target.
type Stage int

const (
	// StageDryRun previews a rollout without mutating the identity.
	StageDryRun Stage = iota

	// StageSandbox trials the policy in an isolated environment.
	StageSandbox

	// StageCanary exposes the policy to a small fraction of usage.
	StageCanary

	// StageTarget trials the policy at full exposure; the last gate before
	// the caller commits it.
	StageTarget
)

// Stages lists every stage in rollout order.
func Stages() []Stage {
	return []Stage{StageDryRun, StageSandbox, StageCanary, StageTarget}
}

// String returns the stage's wire name.
func (s Stage) String() string {
	switch s {
	case StageDryRun:
		return "dry-run"
	case StageSandbox:
		return "sandbox"
	case StageCanary:
		return "canary"
	case StageTarget:
		return "target"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// RequiresApproval reports whether the orchestrator must see a recorded
// human approval before running this stage.
func (s Stage) RequiresApproval() bool {
	return s == StageCanary || s == StageTarget
}

// Mutates reports whether the stage attaches a trial revision to the
// identity. DryRun is the only non-mutating stage.
func (s Stage) Mutates() bool {
	return s != StageDryRun
}

// MarshalText emits the stage's wire name, so JSON and YAML encodings
// carry "sandbox" rather than a bare integer.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a stage wire name.
func (s *Stage) UnmarshalText(text []byte) error {
	stage, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = stage
	return nil
}

// ParseStage parses a stage wire name.
func ParseStage(name string) (Stage, error) {
	switch name {
	case "dry-run":
		return StageDryRun, nil
	case "sandbox":
		return StageSandbox, nil
	case "canary":
		return StageCanary, nil
	case "target":
		return StageTarget, nil
	default:
		return 0, fmt.Errorf("unknown rollout stage: %q", name)
	}
}
