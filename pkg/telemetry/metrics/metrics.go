package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"alpha-hq/alpha/pkg/rollout"
)

// Config contains metrics configuration.
type Config struct {
	// Enabled turns metric recording on. Disabled collectors are no-ops.
	Enabled bool `yaml:"enabled"`

	// Namespace and Subsystem prefix every metric name.
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Namespace: "alpha",
		Subsystem: "pipeline",
	}
}

// Collector records pipeline metrics. It implements rollout.Observer so the
// stage controller can report executions without importing this package.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	stageExecutions *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	collectorFails  *prometheus.CounterVec
	sanitizeRuns    prometheus.Counter
	violations      *prometheus.CounterVec
}

// NewCollector creates a metrics collector on the given registry. A nil
// registry gets a fresh one.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "alpha"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "pipeline"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
		stageExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "stage_executions_total",
			Help:      "Rollout stage executions by stage and result.",
		}, []string{"stage", "result"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "stage_duration_seconds",
			Help:      "Wall-clock duration of rollout stage executions.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}, []string{"stage"}),
		collectorFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "collector_fail_open_total",
			Help:      "Health-metric collections that fell back to a neutral reading.",
		}, []string{"stage"}),
		sanitizeRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "sanitize_runs_total",
			Help:      "Guardrail sanitize passes.",
		}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "guardrail_violations_total",
			Help:      "Guardrail violations found during sanitize, by code.",
		}, []string{"code"}),
	}

	registry.MustRegister(
		c.stageExecutions,
		c.stageDuration,
		c.collectorFails,
		c.sanitizeRuns,
		c.violations,
	)
	return c
}

// Registry exposes the underlying registry for the HTTP handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// StageExecuted implements rollout.Observer.
func (c *Collector) StageExecuted(stage rollout.Stage, succeeded bool, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	result := "success"
	if !succeeded {
		result = "failure"
	}
	c.stageExecutions.WithLabelValues(stage.String(), result).Inc()
	c.stageDuration.WithLabelValues(stage.String()).Observe(duration.Seconds())
}

// CollectorFailedOpen implements rollout.Observer.
func (c *Collector) CollectorFailedOpen(stage rollout.Stage) {
	if !c.config.Enabled {
		return
	}
	c.collectorFails.WithLabelValues(stage.String()).Inc()
}

// RecordSanitize records one sanitize pass and its violations.
func (c *Collector) RecordSanitize(violationsByCode map[string]int) {
	if !c.config.Enabled {
		return
	}
	c.sanitizeRuns.Inc()
	for code, n := range violationsByCode {
		c.violations.WithLabelValues(code).Add(float64(n))
	}
}
