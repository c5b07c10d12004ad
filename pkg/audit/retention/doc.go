// Package retention prunes old audit records.
//
// The Pruner deletes records older than the configured retention window;
// the Scheduler runs it on a cron schedule (e.g. daily at 3 AM) for
// long-running deployments.
package retention
