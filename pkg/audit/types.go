package audit

import (
	"context"
	"time"
)

// Record is one audit entry: a single pipeline step against an identity.
type Record struct {
	// ID is the record UUID, assigned by the Recorder.
	ID string `json:"id"`

	// Identity is the principal being hardened.
	Identity string `json:"identity"`

	// Step names the pipeline step ("sanitize", "diff", or a rollout
	// stage such as "sandbox").
	Step string `json:"step"`

	// Ruleset is the guardrail ruleset in effect, if any.
	Ruleset string `json:"ruleset,omitempty"`

	// Violations is the number of guardrail violations found.
	Violations int `json:"violations"`

	// DiffSummary is the action-level diff summary, if one was computed.
	DiffSummary string `json:"diff_summary,omitempty"`

	// Succeeded reports the step result.
	Succeeded bool `json:"succeeded"`

	// Error describes the failure, if any.
	Error string `json:"error,omitempty"`

	// ErrorRate is the observed health metric for rollout steps.
	ErrorRate float64 `json:"error_rate"`

	// FailedOpen reports a substituted neutral health reading.
	FailedOpen bool `json:"failed_open,omitempty"`

	// Description carries the proposal rationale passed to the stage.
	Description string `json:"description,omitempty"`

	// StartedAt is when the step began; RecordedAt when it was persisted.
	StartedAt  time.Time `json:"started_at"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Query filters audit records. Zero fields match everything.
type Query struct {
	// Identity filters by principal.
	Identity string

	// Step filters by pipeline step.
	Step string

	// OnlyFailed keeps records with Succeeded == false.
	OnlyFailed bool

	// Since and Until bound RecordedAt, inclusive.
	Since *time.Time
	Until *time.Time

	// Limit caps the number of returned records; 0 means no cap.
	Limit int
}

// Storage persists audit records. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Store persists one record.
	Store(ctx context.Context, rec *Record) error

	// Query returns matching records, newest first.
	Query(ctx context.Context, q *Query) ([]*Record, error)

	// Count returns the number of matching records.
	Count(ctx context.Context, q *Query) (int64, error)

	// Delete removes matching records and returns how many went away.
	// Used by retention pruning.
	Delete(ctx context.Context, q *Query) (int64, error)

	// Close releases storage resources.
	Close() error
}
