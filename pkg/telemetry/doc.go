// Package telemetry groups the gateway's observability packages.
//
//   - logging: slog setup, request-scoped fields and credential redaction
//   - metrics: Prometheus collector for inbound requests and backend calls
//   - tracing: OpenTelemetry tracer provider and W3C propagation
//   - health: liveness, readiness and version endpoints
//
// Each package is configured from its section of config.TelemetryConfig.
package telemetry
