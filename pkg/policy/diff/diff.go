package diff

import (
	"fmt"
	"sort"
	"strings"

	"alpha-hq/alpha/pkg/policy"
)

// PolicyDiff is the action-level change set between an existing and a
// proposed policy document.
type PolicyDiff struct {
	// Existing is the baseline document; nil when the identity had no
	// policy, in which case every proposed action counts as added.
	Existing *policy.Document `json:"existing_policy,omitempty"`

	// Proposed is the candidate document.
	Proposed policy.Document `json:"proposed_policy"`

	// AddedActions are actions present in the proposal but not the
	// baseline, lexicographically sorted.
	AddedActions []string `json:"added_actions"`

	// RemovedActions are actions present in the baseline but not the
	// proposal, lexicographically sorted.
	RemovedActions []string `json:"removed_actions"`

	// Summary is a short human-readable report, e.g. "+5 actions, -12 actions".
	Summary string `json:"summary"`
}

// Compute produces the action-level diff between existing and proposed. A
// nil existing document is treated as an empty action set.
func Compute(existing *policy.Document, proposed policy.Document) PolicyDiff {
	existingActions := map[string]struct{}{}
	if existing != nil {
		existingActions = existing.ActionSet()
	}
	proposedActions := proposed.ActionSet()

	added := subtract(proposedActions, existingActions)
	removed := subtract(existingActions, proposedActions)

	return PolicyDiff{
		Existing:       existing,
		Proposed:       proposed,
		AddedActions:   added,
		RemovedActions: removed,
		Summary:        summarize(len(added), len(removed)),
	}
}

// subtract returns a−b as a sorted slice.
func subtract(a, b map[string]struct{}) []string {
	out := []string{}
	for action := range a {
		if _, shared := b[action]; !shared {
			out = append(out, action)
		}
	}
	sort.Strings(out)
	return out
}

// summarize builds the diff summary string.
func summarize(added, removed int) string {
	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("+%d actions", added))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("-%d actions", removed))
	}
	if len(parts) == 0 {
		return "No action-level changes detected"
	}
	return strings.Join(parts, ", ")
}
