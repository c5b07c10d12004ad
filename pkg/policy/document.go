package policy

// DefaultVersion is the IAM policy language version used when a document
// does not carry one.
const DefaultVersion = "2012-10-17"

// Effect determines whether a statement grants or denies access.
type Effect string

const (
	// EffectAllow grants the listed actions.
	EffectAllow Effect = "Allow"

	// EffectDeny denies the listed actions.
	EffectDeny Effect = "Deny"
)

// Valid reports whether the effect is one of the two IAM effects.
func (e Effect) Valid() bool {
	return e == EffectAllow || e == EffectDeny
}

// Statement is a single {Effect, Action, Resource, Condition} rule within a
// policy document.
type Statement struct {
	// Effect is Allow or Deny.
	Effect Effect

	// Actions is the ordered list of action names. Duplicates are allowed
	// in source documents and de-duplicated on sanitized output. Action
	// names outside the service:Action shape are treated as opaque strings.
	Actions []string

	// Resources is the ordered list of resource identifiers; may be a
	// single wildcard "*".
	Resources []string

	// Conditions maps a condition operator (e.g. "StringEquals") to a
	// key/value mapping. May be empty.
	Conditions map[string]map[string]string
}

// Clone returns a deep copy of the statement.
func (s Statement) Clone() Statement {
	out := Statement{
		Effect:    s.Effect,
		Actions:   append([]string(nil), s.Actions...),
		Resources: append([]string(nil), s.Resources...),
	}
	if s.Conditions != nil {
		out.Conditions = make(map[string]map[string]string, len(s.Conditions))
		for op, kv := range s.Conditions {
			inner := make(map[string]string, len(kv))
			for k, v := range kv {
				inner[k] = v
			}
			out.Conditions[op] = inner
		}
	}
	return out
}

// Document is an immutable IAM policy document. Transforms never modify a
// document in place; they clone it and return the rewritten copy.
type Document struct {
	// Version is the policy language version ("2012-10-17").
	Version string

	// Statements is the ordered statement list.
	Statements []Statement
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Version: d.Version}
	if d.Statements != nil {
		out.Statements = make([]Statement, len(d.Statements))
		for i, s := range d.Statements {
			out.Statements[i] = s.Clone()
		}
	}
	return out
}

// Validate checks the document for structural problems that must be rejected
// before any engine runs. A failed validation is a caller-input error, not a
// guardrail violation.
func (d Document) Validate() error {
	if len(d.Statements) == 0 {
		return &ValidationError{Field: "Statement", Message: "document has no statements"}
	}
	for i, s := range d.Statements {
		if s.Effect == "" {
			return &ValidationError{
				Field:   statementPath(i, "Effect"),
				Message: "statement is missing an effect",
			}
		}
		if !s.Effect.Valid() {
			return &ValidationError{
				Field:   statementPath(i, "Effect"),
				Message: "effect must be Allow or Deny",
			}
		}
	}
	return nil
}

// ActionSet returns the flattened set of action names across all statements.
func (d Document) ActionSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, s := range d.Statements {
		for _, a := range s.Actions {
			set[a] = struct{}{}
		}
	}
	return set
}
