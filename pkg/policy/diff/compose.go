package diff

import (
	"context"

	"alpha-hq/alpha/pkg/identity"
	"alpha-hq/alpha/pkg/policy"
)

// ComposeEffectivePolicy builds one synthetic document from everything the
// identity is currently granted: inline policy statements first, then
// attached managed-policy statements in the store's listing order.
//
// Statement order does not affect diff correctness (the diff is set based)
// but is preserved for downstream display of the composed document.
func ComposeEffectivePolicy(ctx context.Context, store identity.Store, name string) (policy.Document, error) {
	inline, err := store.GetInlinePolicies(ctx, name)
	if err != nil {
		return policy.Document{}, err
	}
	attached, err := store.ListAttachedPolicies(ctx, name)
	if err != nil {
		return policy.Document{}, err
	}

	composed := policy.Document{Version: policy.DefaultVersion}
	for _, doc := range inline {
		composed.Statements = append(composed.Statements, doc.Clone().Statements...)
	}
	for _, doc := range attached {
		composed.Statements = append(composed.Statements, doc.Clone().Statements...)
	}
	return composed, nil
}
