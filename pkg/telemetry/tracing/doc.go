// Package tracing provides OpenTelemetry tracing for the gateway.
//
// Incoming requests continue the caller's W3C trace context, and every
// orchestrated call to a backend service gets a client span whose context is
// injected into the outgoing request. Spans are exported over OTLP gRPC:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    sampler: ratio
//	    sample_ratio: 0.1
//	    endpoint: "otel-collector:4317"
//	    insecure: true
//
//	tracer, err := tracing.New(cfg.Telemetry.Tracing, version)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
// Sampling is parent-based: the configured strategy only applies to traces
// that start at the gateway.
package tracing
