package approval

import (
	"context"
	"time"
)

// Record is one human approval decision for a proposal.
type Record struct {
	// Approver identifies who decided.
	Approver string `json:"approver"`

	// Approved is the decision.
	Approved bool `json:"approved"`

	// Timestamp is when the decision was recorded.
	Timestamp time.Time `json:"timestamp"`

	// Comments carries optional reviewer notes.
	Comments string `json:"comments,omitempty"`
}

// Store persists approval records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Record appends an approval decision for the proposal.
	Record(ctx context.Context, proposalID string, rec Record) error

	// Latest returns the most recent decision for the proposal, or
	// (nil, nil) when none exists.
	Latest(ctx context.Context, proposalID string) (*Record, error)

	// Close releases store resources.
	Close() error
}
