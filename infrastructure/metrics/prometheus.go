// Package metrics provides the Prometheus-backed MetricsCollector used to
// observe evaluation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/modelarena/go-arena/internal/ports"
)

// PrometheusMetrics implements ports.MetricsCollector with Prometheus
// collectors covering run throughput, inference latency, and score
// distributions.
type PrometheusMetrics struct {
	operationLatency *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	taskScores       *prometheus.HistogramVec
	finalScores      *prometheus.HistogramVec
	valueHistograms  *prometheus.HistogramVec
}

// Compile-time verification that PrometheusMetrics implements
// MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates a collector and registers its metrics with
// the given registerer. Pass prometheus.DefaultRegisterer for the global
// registry; tests pass a fresh registry to avoid duplicate registration.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		operationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arena_operation_duration_seconds",
				Help:    "Execution time of harness operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arena_operations_total",
				Help: "Total operations performed by the harness.",
			},
			[]string{"operation", "competition", "task", "reason"},
		),
		taskScores: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arena_task_score",
				Help:    "Distribution of per-task scores.",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
			[]string{"competition", "task"},
		),
		finalScores: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arena_final_score",
				Help:    "Distribution of weighted final scores per run.",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
			[]string{"competition"},
		),
		valueHistograms: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arena_observed_values",
				Help:    "General-purpose value observations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency records the execution time of an operation.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	pm.operationLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter increments the operation counter. The competition, task,
// and reason labels default to empty strings when absent; reason carries
// the per-instance failure breakdown (timeout vs inference error).
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	pm.operationCounter.WithLabelValues(metric, labels["competition"], labels["task"], labels["reason"]).Add(value)
}

// RecordHistogram records a value. Score metrics route to the dedicated
// score histograms with [0,1] buckets; everything else falls through to a
// general-purpose histogram.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	switch metric {
	case "task_score":
		pm.taskScores.WithLabelValues(labels["competition"], labels["task"]).Observe(value)
	case "final_score":
		pm.finalScores.WithLabelValues(labels["competition"]).Observe(value)
	default:
		pm.valueHistograms.WithLabelValues(metric).Observe(value)
	}
}
