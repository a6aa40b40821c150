// Package metrics exposes the gateway's Prometheus metrics.
//
// # Metrics
//
//   - requests_total{route,method,status} and request_duration_seconds{route,method}
//   - requests_in_flight
//   - backend_calls_total{backend,outcome} and backend_call_duration_seconds{backend}
//   - backend_up{backend}, set by the readiness probe
//   - pipeline_failures_total{pipeline,stage}
//
// All names carry the configured namespace and subsystem, by default
// "service_manager_gateway_". Route labels are mux patterns such as
// "GET /properties/{path...}" so raw paths never become label values.
//
// # Usage
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	client := upstream.NewClient(upstream.Options{Observer: collector})
//	mux.Handle("GET "+collector.Path(), collector.Handler())
package metrics
