package audit

import "fmt"

// StorageError indicates an audit storage operation failure.
type StorageError struct {
	Operation string
	Cause     error
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage %s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}
