package approval

import "fmt"

// StoreError indicates approval persistence failed.
type StoreError struct {
	Operation  string
	ProposalID string
	Cause      error
}

// Error returns the error message.
func (e *StoreError) Error() string {
	if e.ProposalID != "" {
		return fmt.Sprintf("approval store %s: proposal %q: %v", e.Operation, e.ProposalID, e.Cause)
	}
	return fmt.Sprintf("approval store %s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Cause
}
