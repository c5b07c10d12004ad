package cli

import (
	"errors"

	"alpha-hq/alpha/pkg/rollout"
)

// Exit codes for the alpha binary. Scripts branch on these, so they are
// part of the interface.
const (
	// ExitOK is success.
	ExitOK = 0
	// ExitError is a generic failure (bad input, infrastructure fault).
	ExitError = 1
	// ExitStageFailed means a rollout stage missed its health gate.
	ExitStageFailed = 2
	// ExitApprovalRequired means a gated stage has no approval on record.
	ExitApprovalRequired = 3
)

// ExitCodeFor maps an error to an exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var approvalErr *rollout.ApprovalRequiredError
	if errors.As(err, &approvalErr) {
		return ExitApprovalRequired
	}
	return ExitError
}
