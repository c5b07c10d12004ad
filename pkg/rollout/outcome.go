package rollout

// Outcome is the result of one stage execution. A health-threshold failure
// is an expected outcome (Succeeded == false, no error); infrastructure
// faults are returned separately as *StageFault.
type Outcome struct {
	// Stage is the executed stage.
	Stage Stage `json:"stage"`

	// Succeeded reports whether the stage passed its health gate.
	Succeeded bool `json:"succeeded"`

	// Err describes the failure, if any, for reporting. Empty on success.
	Err string `json:"error,omitempty"`

	// Metrics is the health mapping the stage was judged on.
	Metrics map[string]float64 `json:"metrics"`

	// FailedOpen reports that the metrics collector was unreachable and a
	// neutral reading was substituted.
	FailedOpen bool `json:"failed_open,omitempty"`
}

// MetricsCollector supplies a health mapping (minimally "error_rate") for
// the identity under trial. It may block; the controller retries transient
// errors and fails open if the collector stays unreachable.
type MetricsCollector func() (map[string]float64, error)

// StaticMetrics returns a collector that always reports the given mapping.
// Used for dry runs and local demos with canned metrics.
func StaticMetrics(metrics map[string]float64) MetricsCollector {
	return func() (map[string]float64, error) {
		return metrics, nil
	}
}
