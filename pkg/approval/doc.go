// Package approval persists human approvals for policy rollouts.
//
// A proposal is identified by the identity it hardens. Approvals are
// append-only: each Record call stores a new row and Latest returns the most
// recent one, so a later rejection supersedes an earlier approval. The
// orchestrator checks Latest before running the Canary and Target stages;
// how approvers are notified is out of scope here.
package approval
