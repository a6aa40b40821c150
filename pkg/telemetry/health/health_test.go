package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/SoftwareEngineering-E-Complish/service-manager/internal/testutil"
)

type recordingObserver struct {
	mu      sync.Mutex
	results map[string]bool
}

func (o *recordingObserver) UpdateBackendHealth(name string, healthy bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.results == nil {
		o.results = make(map[string]bool)
	}
	o.results[name] = healthy
}

func TestNew_DefaultTimeout(t *testing.T) {
	if got := New(0).checkTimeout; got != 2*time.Second {
		t.Errorf("default timeout = %v, want 2s", got)
	}
	if got := New(5 * time.Second).checkTimeout; got != 5*time.Second {
		t.Errorf("custom timeout = %v, want 5s", got)
	}
}

func TestChecker_ListChecks(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("llm", func(context.Context) error { return nil })
	checker.RegisterCheck("inventory", func(context.Context) error { return nil })
	checker.RegisterCheck("llm", func(context.Context) error { return nil })

	names := checker.ListChecks()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "inventory" || names[1] != "llm" {
		t.Errorf("ListChecks() = %v", names)
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"inventory": func(context.Context) error { return nil },
				"user":      func(context.Context) error { return nil },
			},
			wantStatus: StatusReady,
		},
		{
			name: "one unhealthy",
			checks: map[string]CheckFunc{
				"inventory": func(context.Context) error { return nil },
				"llm":       func(context.Context) error { return errors.New("connection refused") },
			},
			wantStatus: StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status.Status, tt.wantStatus)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("got %d results, want %d", len(status.Checks), len(tt.checks))
			}
		})
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(50 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		time.Sleep(time.Second)
		return nil
	})

	start := time.Now()
	status := checker.CheckReadiness(context.Background())

	if time.Since(start) > 500*time.Millisecond {
		t.Error("readiness waited for a check past its timeout")
	}
	if status.Checks["slow"].Message != "health check timeout" {
		t.Errorf("message = %q", status.Checks["slow"].Message)
	}
	if status.Status != StatusDegraded {
		t.Errorf("status = %q, want degraded", status.Status)
	}
}

func TestCheckReadiness_Observer(t *testing.T) {
	observer := &recordingObserver{}
	checker := New(time.Second)
	checker.SetObserver(observer)
	checker.RegisterCheck("image", func(context.Context) error { return nil })
	checker.RegisterCheck("geolocation", func(context.Context) error { return errors.New("down") })

	checker.CheckReadiness(context.Background())

	if !observer.results["image"] {
		t.Error("image should be reported healthy")
	}
	if healthy, ok := observer.results["geolocation"]; !ok || healthy {
		t.Error("geolocation should be reported unhealthy")
	}
}

func TestBackendCheck(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()
	backend.Handle("HEAD /", testutil.Response{StatusCode: http.StatusMethodNotAllowed})

	failing := testutil.NewBackend()
	defer failing.Close()
	failing.Handle("/", testutil.Response{StatusCode: http.StatusBadGateway})

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"answers 405", backend.URL(), false},
		{"answers 404 for unknown path", backend.URL() + "/nothing-here", false},
		{"answers 502", failing.URL(), true},
		{"unreachable", testutil.UnreachableURL(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := BackendCheck(nil, tt.url)(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("BackendCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if backend.CallCount("/") != 1 {
		t.Errorf("root probed %d times, want 1", backend.CallCount("/"))
	}
}

func TestLivenessHandler(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("llm", func(context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	checker.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	var status HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Status != StatusOK {
		t.Errorf("status = %q, want ok", status.Status)
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		checkErr error
		wantCode int
	}{
		{"ready", nil, http.StatusOK},
		{"degraded", errors.New("down"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			checker.RegisterCheck("user", func(context.Context) error { return tt.checkErr })

			rec := httptest.NewRecorder()
			checker.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if rec.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestReadinessHandler_Head(t *testing.T) {
	checker := New(time.Second)

	rec := httptest.NewRecorder()
	checker.ReadinessHandler()(rec, httptest.NewRequest(http.MethodHead, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD response has a body: %q", rec.Body.String())
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.0", "abc123", "2026-10-19")(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Version != "1.2.0" || info.Commit != "abc123" || info.BuildTime != "2026-10-19" {
		t.Errorf("info = %+v", info)
	}
	if info.GoVersion == "" {
		t.Error("go_version missing")
	}
}
