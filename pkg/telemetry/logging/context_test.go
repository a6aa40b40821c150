package logging

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID() on empty context = %q, want empty", got)
	}

	ctx = WithRequestID(ctx, "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q, want req-1", got)
	}
}

func TestContextAttrs(t *testing.T) {
	if attrs := ContextAttrs(context.Background()); len(attrs) != 0 {
		t.Errorf("ContextAttrs() on empty context = %v, want none", attrs)
	}

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})

	ctx := trace.ContextWithRemoteSpanContext(WithRequestID(context.Background(), "req-7"), sc)
	got := make(map[string]string)
	for _, a := range ContextAttrs(ctx) {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"request_id": "req-7",
		"trace_id":   "4bf92f3577b34da6a3ce929d0e0e4736",
		"span_id":    "00f067aa0ba902b7",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}
