package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"alpha-hq/alpha/pkg/rollout"
)

func TestCollector_StageExecuted(t *testing.T) {
	c := NewCollector(DefaultConfig(), nil)

	c.StageExecuted(rollout.StageSandbox, true, 2*time.Second)
	c.StageExecuted(rollout.StageSandbox, true, time.Second)
	c.StageExecuted(rollout.StageCanary, false, 500*time.Millisecond)

	if got := testutil.ToFloat64(c.stageExecutions.WithLabelValues("sandbox", "success")); got != 2 {
		t.Errorf("sandbox successes = %g, want 2", got)
	}
	if got := testutil.ToFloat64(c.stageExecutions.WithLabelValues("canary", "failure")); got != 1 {
		t.Errorf("canary failures = %g, want 1", got)
	}
}

func TestCollector_FailedOpenAndSanitize(t *testing.T) {
	c := NewCollector(DefaultConfig(), nil)

	c.CollectorFailedOpen(rollout.StageCanary)
	c.RecordSanitize(map[string]int{"WILDCARD_ACTION": 2, "MISSING_CONDITION": 1})
	c.RecordSanitize(nil)

	if got := testutil.ToFloat64(c.collectorFails.WithLabelValues("canary")); got != 1 {
		t.Errorf("fail-open count = %g, want 1", got)
	}
	if got := testutil.ToFloat64(c.sanitizeRuns); got != 2 {
		t.Errorf("sanitize runs = %g, want 2", got)
	}
	if got := testutil.ToFloat64(c.violations.WithLabelValues("WILDCARD_ACTION")); got != 2 {
		t.Errorf("wildcard violations = %g, want 2", got)
	}
}

func TestCollector_DisabledIsNoop(t *testing.T) {
	c := NewCollector(Config{Enabled: false}, nil)

	c.StageExecuted(rollout.StageSandbox, true, time.Second)
	c.CollectorFailedOpen(rollout.StageSandbox)
	c.RecordSanitize(map[string]int{"WILDCARD_ACTION": 1})

	if got := testutil.ToFloat64(c.stageExecutions.WithLabelValues("sandbox", "success")); got != 0 {
		t.Errorf("disabled collector recorded %g executions", got)
	}
	if got := testutil.ToFloat64(c.sanitizeRuns); got != 0 {
		t.Errorf("disabled collector recorded %g sanitize runs", got)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	c := NewCollector(DefaultConfig(), nil)
	c.StageExecuted(rollout.StageTarget, true, time.Second)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "alpha_pipeline_stage_executions_total") {
		t.Errorf("scrape output missing stage counter:\n%s", body)
	}
}
