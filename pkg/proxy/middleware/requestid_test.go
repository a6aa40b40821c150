package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// serveWithRequestID runs a request with the given X-Request-ID header and
// returns the ID seen by the handler and the one set on the response.
func serveWithRequestID(header string) (seen, returned string) {
	wrapped := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/properties", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	return seen, w.Header().Get(RequestIDHeader)
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantKept bool
	}{
		{name: "no header", header: ""},
		{name: "client id kept", header: "web-7f3a9c", wantKept: true},
		{name: "128 characters kept", header: strings.Repeat("a", 128), wantKept: true},
		{name: "space rejected", header: "has space"},
		{name: "newline rejected", header: "line\nbreak"},
		{name: "non-ASCII rejected", header: "zürich"},
		{name: "too long rejected", header: strings.Repeat("a", 129)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen, returned := serveWithRequestID(tt.header)

			if seen != returned {
				t.Errorf("context ID %q differs from response header %q", seen, returned)
			}
			if tt.wantKept {
				if seen != tt.header {
					t.Errorf("request ID = %q, want client ID %q", seen, tt.header)
				}
				return
			}
			if _, err := uuid.Parse(seen); err != nil {
				t.Errorf("generated ID %q is not a UUID: %v", seen, err)
			}
		})
	}
}

func TestRequestIDMiddleware_Unique(t *testing.T) {
	first, _ := serveWithRequestID("")
	second, _ := serveWithRequestID("")
	if first == second {
		t.Errorf("request IDs should be unique, got %s twice", first)
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/properties", nil)
	if got := GetRequestID(req.Context()); got != "" {
		t.Errorf("GetRequestID() = %q, want empty", got)
	}
}

func BenchmarkRequestIDMiddleware(b *testing.B) {
	wrapped := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/properties", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wrapped.ServeHTTP(httptest.NewRecorder(), req)
	}
}
