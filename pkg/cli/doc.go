// Package cli holds shared helpers for the alpha command-line interface:
// output formatting, exit codes, and signal-aware contexts.
package cli
