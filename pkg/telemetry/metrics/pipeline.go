package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/config"
)

// PipelineMetrics counts orchestrated pipeline runs that stopped early.
//
// Metrics:
//   - <ns>_<sub>_pipeline_failures_total: failures by pipeline and stage
type PipelineMetrics struct {
	failures *prometheus.CounterVec
}

// NewPipelineMetrics creates and registers pipeline metrics.
func NewPipelineMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *PipelineMetrics {
	pm := &PipelineMetrics{
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pipeline_failures_total",
				Help:      "Total number of pipeline runs that failed, by the stage that failed",
			},
			[]string{"pipeline", "stage"},
		),
	}

	registry.MustRegister(pm.failures)
	return pm
}

// RecordFailure records a run of pipeline that stopped at stage.
func (pm *PipelineMetrics) RecordFailure(pipeline, stage string) {
	pm.failures.WithLabelValues(pipeline, stage).Inc()
}
