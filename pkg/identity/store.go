package identity

import (
	"context"

	"alpha-hq/alpha/pkg/policy"
)

// RevisionHandle identifies a trial policy revision attached to an identity.
// The handle is opaque to callers; only the store that issued it can detach
// it.
type RevisionHandle struct {
	// Identity is the principal the revision is attached to.
	Identity string

	// Name is the store-assigned revision name.
	Name string
}

// Store is the identity-store collaborator. Implementations must be safe for
// concurrent use across different identities; the rollout orchestrator
// serializes calls for the same identity.
type Store interface {
	// AttachTrialPolicy attaches a uniquely named trial revision of doc to
	// the identity and returns its handle.
	AttachTrialPolicy(ctx context.Context, identity string, doc policy.Document, description string) (RevisionHandle, error)

	// DetachTrialPolicy removes a previously attached trial revision.
	DetachTrialPolicy(ctx context.Context, identity string, handle RevisionHandle) error

	// CommitPolicy makes doc the identity's permanent policy. Invoked by
	// the orchestrator's caller after the Target stage succeeds; the
	// rollout controller never calls it.
	CommitPolicy(ctx context.Context, identity string, doc policy.Document) error

	// GetInlinePolicies returns the identity's inline policy documents in
	// store order.
	GetInlinePolicies(ctx context.Context, identity string) ([]policy.Document, error)

	// ListAttachedPolicies returns the identity's attached managed policy
	// documents in listing order.
	ListAttachedPolicies(ctx context.Context, identity string) ([]policy.Document, error)
}
