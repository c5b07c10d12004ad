package identity

import "fmt"

// NotFoundError indicates the identity does not exist in the store.
type NotFoundError struct {
	Identity string
}

// Error returns the error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("identity not found: %q", e.Identity)
}

// RevisionError indicates a trial revision operation failure, such as
// detaching a revision that is not attached.
type RevisionError struct {
	Identity string
	Revision string
	Message  string
}

// Error returns the error message.
func (e *RevisionError) Error() string {
	return fmt.Sprintf("identity %q revision %q: %s", e.Identity, e.Revision, e.Message)
}
