package guardrail

import "fmt"

// RulesetError indicates a ruleset that could not be loaded or is
// misconfigured.
type RulesetError struct {
	Ruleset string
	Path    string
	Message string
	Cause   error
}

// Error returns the error message.
func (e *RulesetError) Error() string {
	where := e.Ruleset
	if where == "" {
		where = e.Path
	}
	if e.Cause != nil {
		return fmt.Sprintf("guardrail ruleset %s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("guardrail ruleset %s: %s", where, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RulesetError) Unwrap() error {
	return e.Cause
}

// RegistryError indicates a registry operation failure.
type RegistryError struct {
	Ruleset   string
	Operation string
	Message   string
}

// Error returns the error message.
func (e *RegistryError) Error() string {
	if e.Ruleset != "" {
		return fmt.Sprintf("guardrail registry %s: ruleset %q: %s", e.Operation, e.Ruleset, e.Message)
	}
	return fmt.Sprintf("guardrail registry %s: %s", e.Operation, e.Message)
}
