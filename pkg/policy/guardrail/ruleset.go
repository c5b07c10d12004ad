package guardrail

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ruleset is the explicit guardrail configuration a caller passes to
// Sanitize. Rulesets are plain values; callers may share one across
// goroutines as long as nobody mutates it.
type Ruleset struct {
	// Name identifies the ruleset in the registry and in logs.
	Name string `yaml:"name"`

	// BlockedActions are exact action names that must never be granted.
	BlockedActions []string `yaml:"blocked_actions"`

	// RequiredConditions maps condition operator -> key -> default value.
	// Absent operator/key pairs are injected with the default value.
	RequiredConditions map[string]map[string]string `yaml:"required_conditions"`

	// DisallowedServices are service prefixes (the part of service:Action
	// before the colon) that must not appear in any statement.
	DisallowedServices []string `yaml:"disallowed_services"`
}

// DefaultRuleset returns the organizational baseline: iam:PassRole is
// blocked, the iam service is disallowed, and every statement must pin
// aws:RequestedRegion to us-east-1.
func DefaultRuleset() Ruleset {
	return Ruleset{
		Name:           "default",
		BlockedActions: []string{"iam:PassRole"},
		RequiredConditions: map[string]map[string]string{
			"StringEquals": {"aws:RequestedRegion": "us-east-1"},
		},
		DisallowedServices: []string{"iam"},
	}
}

// Validate checks the ruleset for configuration mistakes.
func (r Ruleset) Validate() error {
	if r.Name == "" {
		return &RulesetError{Message: "ruleset name cannot be empty"}
	}
	for _, a := range r.BlockedActions {
		if a == "" {
			return &RulesetError{Ruleset: r.Name, Message: "blocked action cannot be empty"}
		}
	}
	for op, kv := range r.RequiredConditions {
		if op == "" {
			return &RulesetError{Ruleset: r.Name, Message: "condition operator cannot be empty"}
		}
		if len(kv) == 0 {
			return &RulesetError{
				Ruleset: r.Name,
				Message: fmt.Sprintf("condition operator %q has no keys", op),
			}
		}
	}
	for _, svc := range r.DisallowedServices {
		if svc == "" || strings.Contains(svc, ":") {
			return &RulesetError{
				Ruleset: r.Name,
				Message: fmt.Sprintf("disallowed service %q must be a bare service prefix", svc),
			}
		}
	}
	return nil
}

// blockedSet returns the blocked actions as a set.
func (r Ruleset) blockedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.BlockedActions))
	for _, a := range r.BlockedActions {
		set[a] = struct{}{}
	}
	return set
}

// disallowedSet returns the disallowed service prefixes as a set.
func (r Ruleset) disallowedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.DisallowedServices))
	for _, s := range r.DisallowedServices {
		set[s] = struct{}{}
	}
	return set
}

// sortedOperators returns the required-condition operators in stable order.
func (r Ruleset) sortedOperators() []string {
	ops := make([]string, 0, len(r.RequiredConditions))
	for op := range r.RequiredConditions {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// LoadRuleset reads a single YAML ruleset file.
func LoadRuleset(path string) (Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Ruleset{}, &RulesetError{Path: path, Message: "read ruleset", Cause: err}
	}
	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return Ruleset{}, &RulesetError{Path: path, Message: "parse ruleset", Cause: err}
	}
	if rs.Name == "" {
		// Fall back to the file name so directory loads stay addressable.
		rs.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := rs.Validate(); err != nil {
		return Ruleset{}, err
	}
	return rs, nil
}

// LoadDir reads every .yaml/.yml ruleset in a directory, sorted by file name.
func LoadDir(dir string) ([]Ruleset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &RulesetError{Path: dir, Message: "read ruleset directory", Cause: err}
	}
	var rulesets []Ruleset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		rs, err := LoadRuleset(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		rulesets = append(rulesets, rs)
	}
	return rulesets, nil
}
