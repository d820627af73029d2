package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type engineMetrics struct {
	toolExecutionTotal    *prometheus.CounterVec
	toolExecutionDuration *prometheus.HistogramVec
	toolRetriesTotal      *prometheus.CounterVec
	batchSize             prometheus.Histogram
	batchDuration         prometheus.Histogram
	inFlight              prometheus.Gauge
}

var (
	metricsOnce sync.Once
	metricsInst *engineMetrics
	registry    *prometheus.Registry
)

func getMetrics() *engineMetrics {
	metricsOnce.Do(func() {
		m := &engineMetrics{
			toolExecutionTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "tool_executions_total",
					Help: "Tool executions by tool name and result status.",
				},
				[]string{"tool", "status"},
			),
			toolExecutionDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "tool_execution_duration_seconds",
					Help:    "Tool execution duration by tool name.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"tool"},
			),
			toolRetriesTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "tool_retries_total",
					Help: "Retry attempts by tool name.",
				},
				[]string{"tool"},
			),
			batchSize: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "batch_size",
					Help:    "Number of calls per executed batch.",
					Buckets: []float64{1, 2, 4, 8, 16, 32},
				},
			),
			batchDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "batch_duration_seconds",
					Help:    "Wall-clock duration of batch execution.",
					Buckets: prometheus.DefBuckets,
				},
			),
			inFlight: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "tool_invocations_in_flight",
					Help: "Invocations currently holding an execution slot.",
				},
			),
		}

		registry = prometheus.NewRegistry()
		registry.MustRegister(
			m.toolExecutionTotal,
			m.toolExecutionDuration,
			m.toolRetriesTotal,
			m.batchSize,
			m.batchDuration,
			m.inFlight,
		)
		metricsInst = m
	})
	return metricsInst
}

// EnsureRegistered forces metric registration so scrapes see zero-valued
// series before the first execution.
func EnsureRegistered() {
	getMetrics()
}

// RecordToolExecution records one completed tool invocation.
func RecordToolExecution(toolName, status string, duration time.Duration) {
	m := getMetrics()
	m.toolExecutionTotal.WithLabelValues(toolName, status).Inc()
	m.toolExecutionDuration.WithLabelValues(toolName).Observe(duration.Seconds())
}

// RecordToolRetry records one retry attempt for a tool.
func RecordToolRetry(toolName string) {
	getMetrics().toolRetriesTotal.WithLabelValues(toolName).Inc()
}

// RecordBatch records the size and duration of one executed batch.
func RecordBatch(size int, duration time.Duration) {
	m := getMetrics()
	m.batchSize.Observe(float64(size))
	m.batchDuration.Observe(duration.Seconds())
}

// SlotAcquired increments the in-flight gauge.
func SlotAcquired() { getMetrics().inFlight.Inc() }

// SlotReleased decrements the in-flight gauge.
func SlotReleased() { getMetrics().inFlight.Dec() }

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	getMetrics()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
