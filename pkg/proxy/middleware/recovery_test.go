package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/types"
)

func TestRecoveryMiddleware_Panics(t *testing.T) {
	panics := map[string]any{
		"string": "nil map write in listing pipeline",
		"error":  errors.New("backend client is nil"),
		"struct": struct{ Code int }{Code: 7},
	}

	for name, value := range panics {
		t.Run(name, func(t *testing.T) {
			wrapped := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(value)
			}))

			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/createProperty", nil))

			if w.Code != http.StatusInternalServerError {
				t.Errorf("status = %d, want 500", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			var body types.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if body.Detail != "An internal error occurred. Please try again later." {
				t.Errorf("detail = %q, want the generic message", body.Detail)
			}
		})
	}
}

func TestRecoveryMiddleware_PassThrough(t *testing.T) {
	wrapped := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("queued"))
	}))

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/properties", nil))

	if w.Code != http.StatusAccepted || w.Body.String() != "queued" {
		t.Errorf("got %d %q, want 202 queued", w.Code, w.Body.String())
	}
}

func TestRecoveryMiddleware_AbortHandler(t *testing.T) {
	wrapped := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if recover() != http.ErrAbortHandler {
			t.Error("expected http.ErrAbortHandler to propagate")
		}
	}()
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/properties", nil))
}
