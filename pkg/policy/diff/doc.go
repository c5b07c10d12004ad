// Package diff computes action-level change sets between policy documents.
//
// The diff operates purely at action-name granularity: it flattens each
// document's statements into a set of action strings and ignores effect,
// resource, and condition differences entirely. This is a deliberate
// simplification; reviewers reason about "which actions does this change
// grant or revoke", and the full statement context is available in the
// documents themselves.
//
// ComposeEffectivePolicy builds an identity's full effective policy from its
// inline and attached policy sources so the diff has a complete baseline.
package diff
