// Package telemetry groups the pipeline's observability concerns.
//
// Subpackages:
//   - logging: structured slog logging with ARN redaction
//   - metrics: Prometheus metrics for sanitize and rollout activity
package telemetry
