// Package guardrail sanitizes proposed policy documents against
// organizational guardrails.
//
// The engine applies a fixed rule order per statement: wildcard-action
// removal, blocked-action removal, disallowed-service detection,
// required-condition injection, and wildcard-resource de-duplication.
// Rule order is load-bearing: later rules observe earlier rules' mutations.
//
// Sanitization never fails for a structurally valid document. Everything the
// engine finds is reported as a Violation alongside the best-effort
// sanitized copy so it can be surfaced to human reviewers. A second pass
// over sanitized output emits no violations except UNSUPPORTED_SERVICE,
// which is detection-only: a disallowed service cannot be remediated by this
// engine and requires caller-level action.
//
// Rulesets are plain values passed by the caller at each invocation; there
// is no process-wide mutable guardrail state. The Registry and Watcher
// provide named-ruleset management with YAML hot reload for long-running
// callers.
package guardrail
