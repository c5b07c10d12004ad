package rollout

import (
	"encoding/json"
	"testing"
)

func TestStage_Names(t *testing.T) {
	tests := []struct {
		stage Stage
		name  string
	}{
		{StageDryRun, "dry-run"},
		{StageSandbox, "sandbox"},
		{StageCanary, "canary"},
		{StageTarget, "target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stage.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			parsed, err := ParseStage(tt.name)
			if err != nil {
				t.Fatalf("ParseStage(%q) failed: %v", tt.name, err)
			}
			if parsed != tt.stage {
				t.Errorf("ParseStage(%q) = %v, want %v", tt.name, parsed, tt.stage)
			}
		})
	}

	if _, err := ParseStage("production"); err == nil {
		t.Error("ParseStage accepted an unknown stage name")
	}
}

func TestStage_OrderingAndProperties(t *testing.T) {
	stages := Stages()
	for i := 1; i < len(stages); i++ {
		if stages[i] <= stages[i-1] {
			t.Errorf("stage order broken at %d: %v", i, stages)
		}
	}

	if StageDryRun.Mutates() {
		t.Error("dry-run must not mutate")
	}
	for _, s := range []Stage{StageSandbox, StageCanary, StageTarget} {
		if !s.Mutates() {
			t.Errorf("%s must mutate", s)
		}
	}

	if StageDryRun.RequiresApproval() || StageSandbox.RequiresApproval() {
		t.Error("dry-run and sandbox must not require approval")
	}
	if !StageCanary.RequiresApproval() || !StageTarget.RequiresApproval() {
		t.Error("canary and target must require approval")
	}
}

func TestStage_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(StageCanary)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"canary"` {
		t.Errorf("Marshal = %s, want \"canary\"", data)
	}

	var stage Stage
	if err := json.Unmarshal([]byte(`"target"`), &stage); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if stage != StageTarget {
		t.Errorf("Unmarshal = %v, want target", stage)
	}
}
