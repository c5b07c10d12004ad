// Package metrics records Prometheus metrics for the hardening pipeline:
// stage executions and durations, fail-open health readings, and guardrail
// violation counts. The Collector implements rollout.Observer.
package metrics
