// Alpha hardens IAM policies through a guarded, staged rollout pipeline.
//
// It sanitizes policy documents against a guardrail ruleset, computes
// action-level diffs against the identity's effective policy, and rolls
// hardened policies out through dry-run, sandbox, canary, and target
// stages with health gates and human approval.
//
// Usage:
//
//	# Sanitize a policy document
//	alpha sanitize --file policy.json
//
//	# Diff a proposed policy against an existing one
//	alpha diff --existing current.json --proposed hardened.json
//
//	# Run the full hardening pipeline
//	alpha apply --identity ci-deployer --file hardened.json
//
//	# Record an approval for the gated stages
//	alpha approve --identity ci-deployer --approver alice
//
//	# Inspect the audit trail
//	alpha status --identity ci-deployer
package main

func main() {
	Execute()
}
