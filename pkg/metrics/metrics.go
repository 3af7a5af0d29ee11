package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "appshell"

// Metrics holds the shell's Prometheus collectors on a dedicated registry,
// so embedding hosts never collide with their own collectors.
type Metrics struct {
	registry *prometheus.Registry

	resolutions     *prometheus.CounterVec
	activations     *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	startupFailures prometheus.Counter
	modules         prometheus.Gauge
}

// New creates and registers the shell's collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Total route and slot resolutions served by the index.",
			},
			[]string{"kind"},
		),

		activations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "activations_total",
				Help:      "Total component activations by outcome.",
			},
			[]string{"outcome"},
		),

		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "activation_duration_seconds",
				Help:      "Duration of component activations, including code fetch on first use.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
		),

		startupFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "startup_failures_total",
				Help:      "Total module startup hook failures.",
			},
		),

		modules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "modules_registered",
				Help:      "Number of modules currently in the catalog.",
			},
		),
	}

	m.registry.MustRegister(
		m.resolutions,
		m.activations,
		m.fetchDuration,
		m.startupFailures,
		m.modules,
	)
	return m
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveResolution counts one resolution of the given kind ("route", "slot").
func (m *Metrics) ObserveResolution(kind string) {
	m.resolutions.WithLabelValues(kind).Inc()
}

// ObserveActivation counts one activation and its latency.
// Outcome is one of "ok", "error", "blocked".
func (m *Metrics) ObserveActivation(outcome string, d time.Duration) {
	m.activations.WithLabelValues(outcome).Inc()
	m.fetchDuration.Observe(d.Seconds())
}

// ObserveStartupFailure counts one failed module startup hook.
func (m *Metrics) ObserveStartupFailure() {
	m.startupFailures.Inc()
}

// SetModules records the current catalog size.
func (m *Metrics) SetModules(n int) {
	m.modules.Set(float64(n))
}
