package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/config"
)

// Collector owns the gateway's Prometheus metrics. It records inbound
// requests, calls to backend services, pipeline stage failures and backend
// health.
//
// A Collector built from a disabled configuration accepts every call and
// records nothing.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	upstreamMetrics *UpstreamMetrics
	pipelineMetrics *PipelineMetrics
}

// NewCollector creates a collector and registers its metrics with registry.
// A nil registry gets a fresh one that also exports Go runtime and process
// metrics.
//
// Example:
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	client := upstream.NewClient(upstream.Options{Observer: collector})
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "service_manager"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "gateway"
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		requestMetrics:  NewRequestMetrics(cfg, registry),
		upstreamMetrics: NewUpstreamMetrics(cfg, registry),
		pipelineMetrics: NewPipelineMetrics(cfg, registry),
	}
}

// RecordRequest records a completed inbound request. route is the matched
// route pattern, never the raw path.
func (c *Collector) RecordRequest(route, method string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.requestMetrics.RecordRequest(route, method, strconv.Itoa(status), duration)
}

// RequestStarted increments the in-flight gauge.
func (c *Collector) RequestStarted() {
	if !c.config.Enabled {
		return
	}
	c.requestMetrics.inFlight.Inc()
}

// RequestFinished decrements the in-flight gauge.
func (c *Collector) RequestFinished() {
	if !c.config.Enabled {
		return
	}
	c.requestMetrics.inFlight.Dec()
}

// ObserveUpstream records one call to a backend service. outcome is one of
// the upstream package's outcome labels.
func (c *Collector) ObserveUpstream(backend, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.upstreamMetrics.RecordCall(backend, outcome, duration)
}

// UpdateBackendHealth sets the reachability gauge for a backend.
func (c *Collector) UpdateBackendHealth(backend string, healthy bool) {
	if !c.config.Enabled {
		return
	}
	c.upstreamMetrics.UpdateHealth(backend, healthy)
}

// RecordPipelineFailure records a pipeline run that stopped at stage.
func (c *Collector) RecordPipelineFailure(pipeline, stage string) {
	if !c.config.Enabled {
		return
	}
	c.pipelineMetrics.RecordFailure(pipeline, stage)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Path returns the configured scrape path.
func (c *Collector) Path() string {
	if c.config.Path == "" {
		return "/metrics"
	}
	return c.config.Path
}

// Enabled reports whether metrics are recorded and served.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// routeLabel gives requests that matched no route a fixed label.
func routeLabel(route string) string {
	if route == "" {
		return "unmatched"
	}
	return route
}
