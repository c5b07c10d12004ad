package policy

import "fmt"

// ValidationError indicates a structurally invalid policy document. It is
// raised before sanitize, diff, or rollout run at all.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid policy document: %s", e.Message)
	}
	return fmt.Sprintf("invalid policy document: %s: %s", e.Field, e.Message)
}

// DecodeError indicates a policy document that could not be decoded from its
// wire form.
type DecodeError struct {
	Field string
	Cause error
}

// Error returns the error message.
func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode policy document: %v", e.Cause)
	}
	return fmt.Sprintf("decode policy document: %s: %v", e.Field, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// statementPath builds a locator string such as "statement[2].Action".
func statementPath(idx int, field string) string {
	if field == "" {
		return fmt.Sprintf("statement[%d]", idx)
	}
	return fmt.Sprintf("statement[%d].%s", idx, field)
}
