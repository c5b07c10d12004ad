package guardrail

// Code classifies a guardrail violation.
type Code string

const (
	// CodeWildcardAction marks a wildcard or blocked action that was
	// removed from a statement.
	CodeWildcardAction Code = "WILDCARD_ACTION"

	// CodeMissingCondition marks a required condition that was absent and
	// has been injected with its configured default.
	CodeMissingCondition Code = "MISSING_CONDITION"

	// CodeUnsupportedService marks a statement referencing a disallowed
	// service. Detection only; the statement is not rewritten.
	CodeUnsupportedService Code = "UNSUPPORTED_SERVICE"
)

// Violation is a single guardrail finding. Violations are observations
// returned alongside the sanitized policy; they never fail the sanitize
// call itself.
type Violation struct {
	// Code classifies the finding.
	Code Code `json:"code" yaml:"code"`

	// Message is a human-readable explanation.
	Message string `json:"message" yaml:"message"`

	// Path locates the finding, e.g. "statement[2].Action".
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}
