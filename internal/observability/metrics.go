// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultNamespace = "tcsim"

// Metrics holds the simulator's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// Simulation metrics
	RunsTotal      prometheus.Counter
	RunErrors      *prometheus.CounterVec
	PathsSimulated prometheus.Counter
	DaysSimulated  prometheus.Counter
	FloorEvents    prometheus.Counter
	RunDuration    prometheus.Histogram

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Store metrics
	StoredRuns prometheus.Gauge
}

// NewMetrics registers every collector on a fresh registry, so several
// instances (e.g. one per test) never collide.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sim",
			Name:      "runs_total",
			Help:      "Total number of completed ensemble runs",
		}),
		RunErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sim",
			Name:      "run_errors_total",
			Help:      "Total number of rejected or failed runs by reason",
		}, []string{"reason"}),
		PathsSimulated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sim",
			Name:      "paths_total",
			Help:      "Total number of simulated paths",
		}),
		DaysSimulated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sim",
			Name:      "path_days_total",
			Help:      "Total number of simulated path-days",
		}),
		FloorEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sim",
			Name:      "floor_events_total",
			Help:      "Total number of factor values clamped at zero",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sim",
			Name:      "run_duration_seconds",
			Help:      "Ensemble run duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		StoredRuns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "runs",
			Help:      "Number of runs currently held in the result store",
		}),
	}
}

// ObserveRun records one completed ensemble run.
func (m *Metrics) ObserveRun(paths, days int, floors int64, elapsed time.Duration) {
	m.RunsTotal.Inc()
	m.PathsSimulated.Add(float64(paths))
	m.DaysSimulated.Add(float64(paths) * float64(days))
	m.FloorEvents.Add(float64(floors))
	m.RunDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) RecordRunError(reason string) {
	m.RunErrors.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordRequest(method, route, status string, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) SetStoredRuns(n int) {
	m.StoredRuns.Set(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
