// Package rollout stages a sanitized policy onto a live identity through
// increasingly risky trial stages, evaluating externally supplied health
// metrics and guaranteeing trial-resource teardown.
//
// Each Controller.ExecuteStage call is an atomic attach -> observe ->
// evaluate -> detach unit. The detach runs on every exit path, including
// collector failures and evaluation errors; a stage trial must never remain
// permanently attached by this controller. Making a policy permanent is a
// separate commit action delegated to the identity store and invoked by the
// orchestrator's caller only after the Target stage succeeds.
//
// The error taxonomy separates expected from unexpected failures: a health
// threshold miss is an expected result (Outcome.Succeeded == false, nil
// error), an unreachable metrics collector fails open to a neutral reading
// with a warning, and an attach/detach collaborator fault surfaces as a
// typed *StageFault so callers can tell "this policy change is unsafe" apart
// from "the infrastructure call failed".
//
// The Orchestrator sequences stages (DryRun -> Sandbox -> Canary -> Target),
// enforces the human-approval gate before Canary and Target, and serializes
// concurrent rollouts for the same identity. ExecuteStage itself is
// stateless and knows nothing about prior or future stages.
package rollout
