package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/config"
)

func testConfig() config.MetricsConfig {
	return config.MetricsConfig{
		Enabled:                true,
		Namespace:              "test",
		Subsystem:              "gateway",
		RequestDurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(testConfig(), registry)

	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
	if collector.Path() != "/metrics" {
		t.Errorf("Path() = %q, want /metrics", collector.Path())
	}
}

func TestCollector_Defaults(t *testing.T) {
	collector := NewCollector(config.MetricsConfig{Enabled: true}, nil)
	collector.RecordRequest("GET /properties", http.MethodGet, 200, time.Millisecond)

	count := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("GET /properties", "GET", "200"))
	if count != 1 {
		t.Errorf("requests_total = %v, want 1", count)
	}

	families, err := collector.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	var sawRuntime, sawNamespaced bool
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "go_") {
			sawRuntime = true
		}
		if mf.GetName() == "service_manager_gateway_requests_total" {
			sawNamespaced = true
		}
	}
	if !sawRuntime {
		t.Error("expected Go runtime metrics on default registry")
	}
	if !sawNamespaced {
		t.Error("expected default namespace and subsystem")
	}
}

func TestCollector_RecordRequest(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordRequest("GET /queryProperties", "GET", 200, 120*time.Millisecond)
	collector.RecordRequest("GET /queryProperties", "GET", 200, 80*time.Millisecond)
	collector.RecordRequest("GET /queryProperties", "GET", 500, 2*time.Second)
	collector.RecordRequest("", "GET", 404, time.Millisecond)

	tests := []struct {
		route, status string
		want          float64
	}{
		{"GET /queryProperties", "200", 2},
		{"GET /queryProperties", "500", 1},
		{"unmatched", "404", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues(tt.route, "GET", tt.status))
		if got != tt.want {
			t.Errorf("requests_total{%s,%s} = %v, want %v", tt.route, tt.status, got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(collector.requestMetrics.requestDuration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestCollector_InFlight(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RequestStarted()
	collector.RequestStarted()
	collector.RequestFinished()

	if got := testutil.ToFloat64(collector.requestMetrics.inFlight); got != 1 {
		t.Errorf("requests_in_flight = %v, want 1", got)
	}
}

func TestCollector_ObserveUpstream(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.ObserveUpstream("llm", "success", 300*time.Millisecond)
	collector.ObserveUpstream("llm", "http_error", 50*time.Millisecond)
	collector.ObserveUpstream("inventory", "transport_error", time.Second)

	if got := testutil.ToFloat64(collector.upstreamMetrics.calls.WithLabelValues("llm", "success")); got != 1 {
		t.Errorf("llm success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.upstreamMetrics.calls.WithLabelValues("inventory", "transport_error")); got != 1 {
		t.Errorf("inventory transport_error = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(collector.upstreamMetrics.duration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestCollector_UpdateBackendHealth(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.UpdateBackendHealth("user", true)
	if got := testutil.ToFloat64(collector.upstreamMetrics.up.WithLabelValues("user")); got != 1 {
		t.Errorf("backend_up = %v, want 1", got)
	}

	collector.UpdateBackendHealth("user", false)
	if got := testutil.ToFloat64(collector.upstreamMetrics.up.WithLabelValues("user")); got != 0 {
		t.Errorf("backend_up = %v, want 0", got)
	}
}

func TestCollector_RecordPipelineFailure(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordPipelineFailure("listing", "geocode")
	collector.RecordPipelineFailure("listing", "geocode")
	collector.RecordPipelineFailure("query", "translate")

	if got := testutil.ToFloat64(collector.pipelineMetrics.failures.WithLabelValues("listing", "geocode")); got != 2 {
		t.Errorf("listing/geocode = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.pipelineMetrics.failures.WithLabelValues("query", "translate")); got != 1 {
		t.Errorf("query/translate = %v, want 1", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordRequest("GET /properties", "GET", 200, time.Millisecond)
	collector.ObserveUpstream("inventory", "success", time.Millisecond)
	collector.RecordPipelineFailure("query", "translate")
	collector.RequestStarted()

	if n := testutil.CollectAndCount(collector.requestMetrics.requestsTotal); n != 0 {
		t.Errorf("requests_total series = %d, want 0", n)
	}
	if n := testutil.CollectAndCount(collector.upstreamMetrics.calls); n != 0 {
		t.Errorf("backend_calls_total series = %d, want 0", n)
	}
	if n := testutil.CollectAndCount(collector.pipelineMetrics.failures); n != 0 {
		t.Errorf("pipeline_failures_total series = %d, want 0", n)
	}
	if collector.Enabled() {
		t.Error("Enabled() = true, want false")
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.ObserveUpstream("image", "success", 10*time.Millisecond)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `test_gateway_backend_calls_total{backend="image",outcome="success"} 1`) {
		t.Errorf("scrape output missing backend call counter:\n%s", body)
	}
}

func TestHandler_CountsScrapes(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	handler := collector.Handler()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `promhttp_metric_handler_requests_total{code="200"} 1`) {
		t.Errorf("second scrape should report the first one:\n%s", rec.Body.String())
	}
}
