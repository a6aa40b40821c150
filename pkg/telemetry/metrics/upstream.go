package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/config"
)

// UpstreamMetrics tracks calls to the backend services.
//
// Metrics:
//   - <ns>_<sub>_backend_calls_total: calls by backend and outcome
//   - <ns>_<sub>_backend_call_duration_seconds: call latency by backend
//   - <ns>_<sub>_backend_up: last readiness probe result (1=reachable, 0=not)
type UpstreamMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	up       *prometheus.GaugeVec
}

// NewUpstreamMetrics creates and registers backend call metrics.
func NewUpstreamMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "backend_calls_total",
				Help:      "Total number of calls to backend services by outcome",
			},
			[]string{"backend", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "backend_call_duration_seconds",
				Help:      "Backend call duration in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"backend"},
		),
		up: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "backend_up",
				Help:      "Backend reachability from the last readiness probe (1=reachable, 0=unreachable)",
			},
			[]string{"backend"},
		),
	}

	registry.MustRegister(um.calls, um.duration, um.up)
	return um
}

// RecordCall records one backend call.
func (um *UpstreamMetrics) RecordCall(backend, outcome string, duration time.Duration) {
	um.calls.WithLabelValues(backend, outcome).Inc()
	um.duration.WithLabelValues(backend).Observe(duration.Seconds())
}

// UpdateHealth sets the reachability gauge.
func (um *UpstreamMetrics) UpdateHealth(backend string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	um.up.WithLabelValues(backend).Set(value)
}
