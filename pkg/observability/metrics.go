package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Build outcomes used as the "outcome" label.
const (
	OutcomeOK         = "ok"
	OutcomeInfeasible = "infeasible"
	OutcomeCanceled   = "canceled"
	OutcomeFailed     = "failed"
)

// Metrics holds the Prometheus collectors for diagram builds and caching.
// Each Metrics owns its registry so tests and embedders can create several.
type Metrics struct {
	registry   *prometheus.Registry
	builds     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	iterations *prometheus.HistogramVec
	inFlight   prometheus.Gauge
	cache      *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_builds_total",
				Help: "Total number of diagram builds by outcome",
			},
			[]string{"diagram", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lattice_build_duration_seconds",
				Help:    "Wall time of diagram builds, rules and solve included",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"diagram"},
		),
		iterations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lattice_solver_iterations",
				Help:    "Optimizer iterations spent per successful build",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
			[]string{"diagram"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lattice_builds_in_flight",
			Help: "Builds currently running",
		}),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_cache_lookups_total",
				Help: "Rendered diagram cache lookups by result",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(
		m.builds, m.duration, m.iterations, m.inFlight, m.cache,
		collectors.NewGoCollector(),
	)
	return m
}

// Hooks returns lifecycle hooks that record every build.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBuildStart: func(_ context.Context, _ *domain.BuildEvent) {
			m.inFlight.Inc()
		},
		OnBuildFinish: func(_ context.Context, e *domain.BuildEvent) {
			m.inFlight.Dec()
			outcome := Outcome(e.Err)
			m.builds.WithLabelValues(e.Diagram, outcome).Inc()
			m.duration.WithLabelValues(e.Diagram).Observe(e.Duration.Seconds())
			if outcome == OutcomeOK {
				m.iterations.WithLabelValues(e.Diagram).Observe(float64(e.Iterations))
			}
		},
	}
}

// ObserveCache counts one cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Outcome classifies a build error for labeling.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrInfeasible):
		return OutcomeInfeasible
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeFailed
	}
}
