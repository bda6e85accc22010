// Package metric provides Prometheus metrics for the composition kernel.
// Builds are rare, explicit operations, so the surface is small: counters
// and latency histograms per artifact kind and mode, plus swap and
// violation counters for the cache path.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics contains all kernel-level build and cache metrics
type Metrics struct {
	BuildsTotal          *prometheus.CounterVec   // by kind, mode, status
	BuildDuration        *prometheus.HistogramVec // by kind, mode
	ValidationViolations *prometheus.CounterVec   // by kind, mode
	CacheSwapsTotal      *prometheus.CounterVec   // by kind, mode
	LayersComposed       *prometheus.HistogramVec // by kind, mode
}

// NewMetrics creates a new Metrics instance with all kernel metrics
func NewMetrics() *Metrics {
	return &Metrics{
		BuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "citomni",
				Subsystem: "build",
				Name:      "total",
				Help:      "Total number of artifact build operations",
			},
			[]string{"kind", "mode", "status"}, // status: success, failure
		),

		BuildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "citomni",
				Subsystem: "build",
				Name:      "duration_seconds",
				Help:      "Artifact build duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"kind", "mode"},
		),

		ValidationViolations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "citomni",
				Subsystem: "validation",
				Name:      "violations_total",
				Help:      "Total number of structural validation violations found",
			},
			[]string{"kind", "mode"},
		),

		CacheSwapsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "citomni",
				Subsystem: "cache",
				Name:      "swaps_total",
				Help:      "Total number of committed artifact swaps",
			},
			[]string{"kind", "mode"},
		),

		LayersComposed: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "citomni",
				Subsystem: "build",
				Name:      "layers",
				Help:      "Number of contributing layers per build",
				Buckets:   []float64{1, 2, 4, 8, 16, 32},
			},
			[]string{"kind", "mode"},
		),
	}
}

// Registry bundles the kernel metrics with their Prometheus registry
type Registry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
}

// NewRegistry creates a metrics registry with kernel and Go runtime metrics
// registered
func NewRegistry() *Registry {
	r := &Registry{
		prometheusRegistry: prometheus.NewRegistry(),
		Metrics:            NewMetrics(),
	}

	r.prometheusRegistry.MustRegister(
		r.Metrics.BuildsTotal,
		r.Metrics.BuildDuration,
		r.Metrics.ValidationViolations,
		r.Metrics.CacheSwapsTotal,
		r.Metrics.LayersComposed,
	)
	r.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// PrometheusRegistry returns the underlying Prometheus registry for
// exposition
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}
