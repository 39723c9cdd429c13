package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics exposes the console's Prometheus primitives on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	SimulatorRuns        prometheus.Counter
	SimulatorDuration    prometheus.Histogram
	SimulatorErrors      prometheus.Counter
	SimulatorTransitions *prometheus.CounterVec
	SimulatorCreated     prometheus.Counter

	ExportsGenerated *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_http_requests_total",
			Help: "Counts HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_http_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		SimulatorRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "console_simulator_runs_total",
			Help: "Counts simulator ticks.",
		}),
		SimulatorDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "console_simulator_duration_seconds",
			Help:    "Simulator tick durations.",
			Buckets: prometheus.DefBuckets,
		}),
		SimulatorErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "console_simulator_errors_total",
			Help: "Counts simulator errors.",
		}),
		SimulatorTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_simulator_transitions_total",
			Help: "Counts status transitions applied by the simulator.",
		}, []string{"to"}),
		SimulatorCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "console_simulator_transactions_created_total",
			Help: "Counts synthetic transactions created in dev mode.",
		}),
		ExportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_exports_generated_total",
			Help: "Counts generated exports by kind.",
		}, []string{"kind"}),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.SimulatorRuns,
		m.SimulatorDuration,
		m.SimulatorErrors,
		m.SimulatorTransitions,
		m.SimulatorCreated,
		m.ExportsGenerated,
	)
	return m
}
