// Package audit records what the hardening pipeline did to each identity:
// sanitize findings, the action-level diff summary, and the outcome of every
// rollout stage.
//
// Records are append-only and queryable by identity, stage, result, and time
// range. The Recorder assigns UUIDs and timestamps; storage backends are
// pluggable, with SQLite for durable deployments and an in-memory backend
// for tests. The retention subpackage prunes old records on a cron schedule.
package audit
