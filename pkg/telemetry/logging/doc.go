// Package logging builds the process-wide structured logger.
//
// It wraps Go's standard log/slog with configurable level and format
// (JSON or text) and optional redaction of AWS account identifiers, so
// ARNs can appear in log lines without leaking the account-ID segment.
package logging
