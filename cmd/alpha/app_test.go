package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"alpha-hq/alpha/pkg/config"
	"alpha-hq/alpha/pkg/rollout"
)

func TestBuildPlan(t *testing.T) {
	cfg := config.Default()
	cfg.Rollout.PauseBetween = 2 * time.Minute

	tests := []struct {
		name     string
		stages   string
		pause    time.Duration
		wantPlan rollout.Plan
		wantErr  bool
	}{
		{
			name:     "defaults from config",
			stages:   "",
			pause:    -1,
			wantPlan: rollout.Plan{Stages: rollout.Stages(), PauseBetween: 2 * time.Minute},
		},
		{
			name:     "explicit stages and pause",
			stages:   "dry-run, sandbox",
			pause:    0,
			wantPlan: rollout.Plan{Stages: []rollout.Stage{rollout.StageDryRun, rollout.StageSandbox}},
		},
		{
			name:    "unknown stage",
			stages:  "production",
			pause:   -1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applyFlags.stages = tt.stages
			applyFlags.pause = tt.pause

			plan, err := buildPlan(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("buildPlan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if plan.PauseBetween != tt.wantPlan.PauseBetween {
				t.Errorf("PauseBetween = %v, want %v", plan.PauseBetween, tt.wantPlan.PauseBetween)
			}
			if len(plan.Stages) != len(tt.wantPlan.Stages) {
				t.Fatalf("stages = %v, want %v", plan.Stages, tt.wantPlan.Stages)
			}
			for i := range plan.Stages {
				if plan.Stages[i] != tt.wantPlan.Stages[i] {
					t.Errorf("stages = %v, want %v", plan.Stages, tt.wantPlan.Stages)
					break
				}
			}
		})
	}
}

func TestSeedIdentityStore(t *testing.T) {
	t.Run("seed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "identities.json")
		content := `[
  {
    "name": "ci-deployer",
    "inline": [
      {
        "Version": "2012-10-17",
        "Statement": [
          {"Effect": "Allow", "Action": "s3:GetObject", "Resource": "arn:aws:s3:::bucket/*"}
        ]
      }
    ]
  }
]`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		store, err := seedIdentityStore(path)
		if err != nil {
			t.Fatalf("seedIdentityStore failed: %v", err)
		}
		inline, err := store.GetInlinePolicies(context.Background(), "ci-deployer")
		if err != nil {
			t.Fatalf("GetInlinePolicies failed: %v", err)
		}
		if len(inline) != 1 || inline[0].Statements[0].Actions[0] != "s3:GetObject" {
			t.Errorf("inline = %+v", inline)
		}
	})

	t.Run("empty path gives empty store", func(t *testing.T) {
		if _, err := seedIdentityStore(""); err != nil {
			t.Errorf("seedIdentityStore(\"\") failed: %v", err)
		}
	})

	t.Run("entry without a name", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "identities.json")
		if err := os.WriteFile(path, []byte(`[{"inline": []}]`), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := seedIdentityStore(path); err == nil {
			t.Error("seedIdentityStore accepted an unnamed entry")
		}
	})
}

func TestRolloutSucceeded(t *testing.T) {
	plan := rollout.Plan{Stages: rollout.Stages()}

	withTarget := []rollout.Outcome{
		{Stage: rollout.StageSandbox, Succeeded: true},
		{Stage: rollout.StageTarget, Succeeded: true},
	}
	if !rolloutSucceeded(plan, withTarget) {
		t.Error("successful target stage not recognized")
	}

	halted := []rollout.Outcome{
		{Stage: rollout.StageSandbox, Succeeded: false},
	}
	if rolloutSucceeded(plan, halted) {
		t.Error("halted rollout reported as succeeded")
	}

	failedTarget := []rollout.Outcome{
		{Stage: rollout.StageTarget, Succeeded: false},
	}
	if rolloutSucceeded(plan, failedTarget) {
		t.Error("failed target stage reported as succeeded")
	}
}
