package guardrail

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"alpha-hq/alpha/pkg/policy"
)

// Engine applies a ruleset to proposed policy documents.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a guardrail engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger.With("component", "guardrail")}
}

// Sanitize reviews and adjusts a policy document so it respects the given
// ruleset. It returns the sanitized copy and every violation discovered so
// they can be surfaced to human reviewers. The input document is not
// modified.
//
// Callers must validate the document first (policy.Document.Validate);
// Sanitize itself never fails.
//
// Statements whose action list becomes empty after wildcard and
// blocked-action removal are retained, not deleted. Removing them would hide
// the grant from reviewers; deciding whether an emptied statement should go
// away is a human call.
func (e *Engine) Sanitize(doc policy.Document, rs Ruleset) (policy.Document, []Violation) {
	out := doc.Clone()
	violations := []Violation{}

	blocked := rs.blockedSet()
	disallowed := rs.disallowedSet()

	for i := range out.Statements {
		st := &out.Statements[i]

		// Source documents may repeat an action; output is de-duplicated
		// in first-occurrence order.
		st.Actions = dedupe(st.Actions)

		// Rule 1: remove wildcard actions. Only the offending entries are
		// removed, never the whole statement.
		kept := st.Actions[:0]
		for _, action := range st.Actions {
			if isWildcardAction(action) {
				violations = append(violations, Violation{
					Code:    CodeWildcardAction,
					Message: "Statements cannot include wildcard actions.",
					Path:    statementPath(i, "Action"),
				})
				continue
			}
			kept = append(kept, action)
		}
		st.Actions = kept

		// Rule 2: remove blocked actions still present after rule 1.
		kept = st.Actions[:0]
		for _, action := range st.Actions {
			if _, hit := blocked[action]; hit {
				violations = append(violations, Violation{
					Code:    CodeWildcardAction,
					Message: fmt.Sprintf("Action %s is blocked by policy.", action),
					Path:    statementPath(i, "Action"),
				})
				continue
			}
			kept = append(kept, action)
		}
		st.Actions = kept

		// Rule 3: disallowed-service detection over the remaining actions.
		// Detection only; a disallowed service cannot be remediated here.
		if hits := disallowedServices(st.Actions, disallowed); len(hits) > 0 {
			violations = append(violations, Violation{
				Code:    CodeUnsupportedService,
				Message: fmt.Sprintf("Service(s) %s not allowed.", strings.Join(hits, ", ")),
				Path:    statementPath(i, ""),
			})
		}

		// Rule 4: inject required conditions absent from the statement.
		for _, op := range rs.sortedOperators() {
			keys := make([]string, 0, len(rs.RequiredConditions[op]))
			for key := range rs.RequiredConditions[op] {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				if _, present := st.Conditions[op][key]; present {
					continue
				}
				violations = append(violations, Violation{
					Code:    CodeMissingCondition,
					Message: fmt.Sprintf("Condition %s.%s must be present.", op, key),
					Path:    statementPath(i, "Condition"),
				})
				if st.Conditions == nil {
					st.Conditions = make(map[string]map[string]string)
				}
				if st.Conditions[op] == nil {
					st.Conditions[op] = make(map[string]string)
				}
				st.Conditions[op][key] = rs.RequiredConditions[op][key]
			}
		}

		// Rule 5: a blanket "*" resource next to scoped resources grants
		// nothing meaningful; drop it without a violation.
		if len(st.Resources) > 1 && contains(st.Resources, "*") {
			kept := st.Resources[:0]
			for _, r := range st.Resources {
				if r != "*" {
					kept = append(kept, r)
				}
			}
			st.Resources = kept
		}
	}

	if len(violations) > 0 {
		e.logger.Info("guardrail violations found",
			"ruleset", rs.Name,
			"violations", len(violations),
		)
	}
	return out, violations
}

// isWildcardAction reports whether an action is "*" or a service-level
// wildcard such as "s3:*". Anything else, including action names outside
// the service:Action shape, is treated as an opaque string.
func isWildcardAction(action string) bool {
	return action == "*" || strings.HasSuffix(action, ":*")
}

// disallowedServices returns the sorted service prefixes from actions that
// intersect the disallowed set.
func disallowedServices(actions []string, disallowed map[string]struct{}) []string {
	if len(disallowed) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	for _, action := range actions {
		idx := strings.Index(action, ":")
		if idx < 0 {
			continue
		}
		svc := action[:idx]
		if _, hit := disallowed[svc]; hit {
			seen[svc] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	hits := make([]string, 0, len(seen))
	for svc := range seen {
		hits = append(hits, svc)
	}
	sort.Strings(hits)
	return hits
}

// dedupe removes duplicate entries preserving first-occurrence order.
func dedupe(values []string) []string {
	if len(values) < 2 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// contains reports whether values includes target.
func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// statementPath builds a violation locator such as "statement[2].Action".
func statementPath(idx int, field string) string {
	if field == "" {
		return fmt.Sprintf("statement[%d]", idx)
	}
	return fmt.Sprintf("statement[%d].%s", idx, field)
}
