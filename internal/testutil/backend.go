// Package testutil provides fake backend services for gateway tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Backend is a fake backend service. Responses are registered per route and
// every request is recorded for later assertions.
type Backend struct {
	server   *httptest.Server
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []RecordedRequest
}

// Response defines a canned backend response.
type Response struct {
	StatusCode int

	// Body is written verbatim for string and []byte, JSON encoded otherwise
	Body any

	Headers map[string]string
	Delay   time.Duration
}

// RecordedRequest is a request received by a Backend.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Query    url.Values
	Header   http.Header
	Body     []byte
}

// NewBackend starts a fake backend. Close it when done.
func NewBackend() *Backend {
	b := &Backend{routes: make(map[string]http.HandlerFunc)}
	b.server = httptest.NewServer(http.HandlerFunc(b.handler))
	return b
}

// URL returns the backend base URL.
func (b *Backend) URL() string {
	return b.server.URL
}

// Close shuts the backend down.
func (b *Backend) Close() {
	b.server.Close()
}

// Handle registers a canned response. The pattern is either a path
// ("/properties") or a method and path ("POST /properties"); the method
// form takes precedence.
func (b *Backend) Handle(pattern string, resp Response) {
	b.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, resp)
	})
}

// HandleFunc registers a handler for pattern, see Handle.
func (b *Backend) HandleFunc(pattern string, fn http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[pattern] = fn
}

// Requests returns every request received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]RecordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// RequestsTo returns the requests received for path.
func (b *Backend) RequestsTo(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range b.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// CallCount returns the number of requests received for path.
func (b *Backend) CallCount(path string) int {
	return len(b.RequestsTo(path))
}

func (b *Backend) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, RecordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Query:    r.URL.Query(),
		Header:   r.Header.Clone(),
		Body:     body,
	})
	fn, ok := b.routes[r.Method+" "+r.URL.Path]
	if !ok {
		fn, ok = b.routes[r.URL.Path]
	}
	b.mu.Unlock()

	if !ok {
		writeResponse(w, Response{
			StatusCode: http.StatusNotFound,
			Body:       map[string]string{"detail": "Not Found"},
		})
		return
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	fn(w, r)
}

func writeResponse(w http.ResponseWriter, resp Response) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}

	var payload []byte
	switch v := resp.Body.(type) {
	case nil:
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			http.Error(w, fmt.Sprintf("testutil: cannot encode body: %v", err), http.StatusInternalServerError)
			return
		}
		payload = data
		w.Header().Set("Content-Type", "application/json")
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// Multipart parses a recorded multipart/form-data body.
func (r RecordedRequest) Multipart() (*multipart.Form, error) {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return nil, fmt.Errorf("testutil: content type %q is not multipart", mediaType)
	}
	return multipart.NewReader(bytes.NewReader(r.Body), params["boundary"]).ReadForm(32 << 20)
}

// JSON decodes a recorded JSON body into v.
func (r RecordedRequest) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// UnreachableURL returns the URL of a server that has already been shut
// down, so connecting to it fails.
func UnreachableURL() string {
	s := httptest.NewServer(http.NotFoundHandler())
	u := s.URL
	s.Close()
	return u
}
