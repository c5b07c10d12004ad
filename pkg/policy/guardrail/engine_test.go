package guardrail

import (
	"reflect"
	"strings"
	"testing"

	"alpha-hq/alpha/pkg/policy"
)

func allowStatement(actions ...string) policy.Statement {
	return policy.Statement{
		Effect:    policy.EffectAllow,
		Actions:   actions,
		Resources: []string{"*"},
	}
}

func docOf(statements ...policy.Statement) policy.Document {
	return policy.Document{Version: policy.DefaultVersion, Statements: statements}
}

func codes(violations []Violation) []Code {
	out := make([]Code, len(violations))
	for i, v := range violations {
		out[i] = v.Code
	}
	return out
}

// TestEngine_Sanitize_FullWildcard covers the canonical over-broad grant:
// {Action: "*", Resource: "*"} against the default ruleset.
func TestEngine_Sanitize_FullWildcard(t *testing.T) {
	engine := NewEngine(nil)
	doc := docOf(allowStatement("*"))

	sanitized, violations := engine.Sanitize(doc, DefaultRuleset())

	wantCodes := []Code{CodeWildcardAction, CodeMissingCondition}
	if !reflect.DeepEqual(codes(violations), wantCodes) {
		t.Fatalf("violation codes = %v, want %v", codes(violations), wantCodes)
	}

	st := sanitized.Statements[0]
	if len(st.Actions) != 0 {
		t.Errorf("Actions = %v, want empty", st.Actions)
	}
	if got := st.Conditions["StringEquals"]["aws:RequestedRegion"]; got != "us-east-1" {
		t.Errorf("injected condition = %q, want %q", got, "us-east-1")
	}
	// The emptied statement is retained for human review, not deleted.
	if len(sanitized.Statements) != 1 {
		t.Errorf("statement count = %d, want 1", len(sanitized.Statements))
	}
	// A lone "*" resource stays; only a blanket wildcard next to scoped
	// resources is dropped.
	if !reflect.DeepEqual(st.Resources, []string{"*"}) {
		t.Errorf("Resources = %v, want [*]", st.Resources)
	}
}

func TestEngine_Sanitize_Rules(t *testing.T) {
	rs := DefaultRuleset()

	tests := []struct {
		name          string
		doc           policy.Document
		wantActions   []string
		wantCodes     []Code
		wantResources []string
		wantMessages  []string
	}{
		{
			name:        "service wildcard removed per entry",
			doc:         docOf(allowStatement("s3:*", "s3:GetObject", "ec2:*")),
			wantActions: []string{"s3:GetObject"},
			wantCodes:   []Code{CodeWildcardAction, CodeWildcardAction, CodeMissingCondition},
		},
		{
			name:        "blocked action removed with blocked message",
			doc:         docOf(allowStatement("iam:PassRole", "s3:GetObject")),
			wantActions: []string{"s3:GetObject"},
			// Removing the blocked action also clears the iam service, so
			// rule 3 has nothing left to flag.
			wantCodes: []Code{CodeWildcardAction, CodeMissingCondition},
			wantMessages: []string{
				"Action iam:PassRole is blocked by policy.",
				"Condition StringEquals.aws:RequestedRegion must be present.",
			},
		},
		{
			name:        "disallowed service detected but not removed",
			doc:         docOf(allowStatement("iam:CreateUser")),
			wantActions: []string{"iam:CreateUser"},
			wantCodes:   []Code{CodeUnsupportedService, CodeMissingCondition},
		},
		{
			name: "present condition not reinjected",
			doc: docOf(policy.Statement{
				Effect:  policy.EffectAllow,
				Actions: []string{"s3:GetObject"},
				Conditions: map[string]map[string]string{
					"StringEquals": {"aws:RequestedRegion": "eu-west-1"},
				},
			}),
			wantActions: []string{"s3:GetObject"},
			wantCodes:   []Code{},
		},
		{
			name: "blanket wildcard resource dropped next to scoped ones",
			doc: docOf(policy.Statement{
				Effect:    policy.EffectAllow,
				Actions:   []string{"s3:GetObject"},
				Resources: []string{"arn:aws:s3:::bucket/*", "*"},
				Conditions: map[string]map[string]string{
					"StringEquals": {"aws:RequestedRegion": "us-east-1"},
				},
			}),
			wantActions:   []string{"s3:GetObject"},
			wantCodes:     []Code{},
			wantResources: []string{"arn:aws:s3:::bucket/*"},
		},
		{
			name:        "duplicate actions deduplicated first occurrence",
			doc:         docOf(allowStatement("s3:GetObject", "s3:PutObject", "s3:GetObject")),
			wantActions: []string{"s3:GetObject", "s3:PutObject"},
			wantCodes:   []Code{CodeMissingCondition},
		},
	}

	engine := NewEngine(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sanitized, violations := engine.Sanitize(tt.doc, rs)

			if !reflect.DeepEqual(codes(violations), tt.wantCodes) {
				t.Errorf("violation codes = %v, want %v", codes(violations), tt.wantCodes)
			}
			if got := sanitized.Statements[0].Actions; !reflect.DeepEqual(got, tt.wantActions) {
				t.Errorf("Actions = %v, want %v", got, tt.wantActions)
			}
			if tt.wantResources != nil {
				if got := sanitized.Statements[0].Resources; !reflect.DeepEqual(got, tt.wantResources) {
					t.Errorf("Resources = %v, want %v", got, tt.wantResources)
				}
			}
			for i, want := range tt.wantMessages {
				if violations[i].Message != want {
					t.Errorf("message[%d] = %q, want %q", i, violations[i].Message, want)
				}
			}
		})
	}
}

// Sanitizing an already-sanitized document must change nothing. With no
// disallowed service left in the document, the second pass is silent.
func TestEngine_Sanitize_Idempotent(t *testing.T) {
	engine := NewEngine(nil)
	doc := docOf(
		allowStatement("*", "s3:GetObject", "iam:PassRole"),
		allowStatement("logs:*", "logs:PutLogEvents"),
	)

	once, _ := engine.Sanitize(doc, DefaultRuleset())
	twice, violations := engine.Sanitize(once, DefaultRuleset())

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second pass changed the document:\n first: %+v\nsecond: %+v", once, twice)
	}
	if len(violations) != 0 {
		t.Errorf("second pass reported %d violations, want 0: %v", len(violations), violations)
	}
}

// The input document must never be modified.
func TestEngine_Sanitize_InputUntouched(t *testing.T) {
	engine := NewEngine(nil)
	doc := docOf(allowStatement("*", "s3:GetObject"))

	engine.Sanitize(doc, DefaultRuleset())

	if !reflect.DeepEqual(doc.Statements[0].Actions, []string{"*", "s3:GetObject"}) {
		t.Errorf("input actions mutated: %v", doc.Statements[0].Actions)
	}
	if doc.Statements[0].Conditions != nil {
		t.Errorf("input conditions mutated: %v", doc.Statements[0].Conditions)
	}
}

// Postcondition: no sanitized statement contains a wildcard action, and
// every statement carries every required condition.
func TestEngine_Sanitize_Postconditions(t *testing.T) {
	engine := NewEngine(nil)
	rs := DefaultRuleset()
	doc := docOf(
		allowStatement("*"),
		allowStatement("s3:*", "sts:AssumeRole"),
		allowStatement("dynamodb:Query", "dynamodb:*", "iam:PassRole"),
		allowStatement("unrecognized-action-name"),
	)

	sanitized, _ := engine.Sanitize(doc, rs)

	for i, st := range sanitized.Statements {
		for _, action := range st.Actions {
			if action == "*" || strings.HasSuffix(action, ":*") {
				t.Errorf("statement[%d] still has wildcard action %q", i, action)
			}
		}
		for op, kv := range rs.RequiredConditions {
			for key := range kv {
				if _, ok := st.Conditions[op][key]; !ok {
					t.Errorf("statement[%d] missing required condition %s.%s", i, op, key)
				}
			}
		}
	}

	// Names outside service:Action stay opaque and untouched.
	if !reflect.DeepEqual(sanitized.Statements[3].Actions, []string{"unrecognized-action-name"}) {
		t.Errorf("opaque action altered: %v", sanitized.Statements[3].Actions)
	}
}
