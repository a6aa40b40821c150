package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/telemetry/logging"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/telemetry/tracing"
)

// Logical backend names used in logs, metrics and errors.
const (
	BackendInventory   = "inventory"
	BackendLLM         = "llm"
	BackendUser        = "user"
	BackendImage       = "image"
	BackendGeolocation = "geolocation"
)

// Outcome labels reported to the Observer.
const (
	OutcomeSuccess        = "success"
	OutcomeHTTPError      = "http_error"
	OutcomeTransportError = "transport_error"
)

// RequestIDHeader carries the inbound request ID on orchestration calls.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds the raw payload copied onto errors and log lines.
const maxErrorBody = 512

// Observer receives one observation per completed backend call.
type Observer interface {
	ObserveUpstream(backend, outcome string, duration time.Duration)
}

// Options configures a Client.
type Options struct {
	// Timeout is the overall transport timeout per call. Zero means no timeout.
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections across all hosts.
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum number of idle connections per host.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection is kept.
	IdleConnTimeout time.Duration

	// Observer, if set, is notified after every call.
	Observer Observer

	// Transport overrides the HTTP transport. Used by tests.
	Transport http.RoundTripper
}

// Client performs calls to backend services over one pooled transport.
// It never retries: every failure is reported to the caller exactly once.
type Client struct {
	client   *http.Client
	observer Observer
	tracer   trace.Tracer
}

// NewClient creates a Client with connection pooling.
func NewClient(opts Options) *Client {
	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        opts.MaxIdleConns,
			MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
			IdleConnTimeout:     opts.IdleConnTimeout,
			// Pass-through bodies are relayed exactly as the backend encoded them
			DisableCompression: true,
			ForceAttemptHTTP2:  true,
		}
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			// Redirects are relayed to the caller, not followed
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		observer: opts.Observer,
		tracer:   otel.Tracer("github.com/SoftwareEngineering-E-Complish/service-manager/pkg/upstream"),
	}
}

// Request describes one backend call.
type Request struct {
	// Backend is the logical backend name
	Backend string

	// Method is the HTTP method; GET when empty
	Method string

	// URL is the full endpoint URL without query string
	URL string

	// Query is encoded onto URL when non-empty
	Query url.Values

	// RawQuery is used verbatim when Query is empty
	RawQuery string

	// Header is copied onto the outbound request
	Header http.Header

	// JSON, when non-nil, is encoded as the request body
	JSON any

	// Body is sent as-is when JSON and Files are unset
	Body []byte

	// Files, when non-empty, are sent as a multipart/form-data body
	Files []File

	// ExpectStatus, when set, is the only status Call accepts; otherwise
	// any 2xx is accepted
	ExpectStatus int
}

// File is one part of a multipart upload.
type File struct {
	// Field is the form field name
	Field string

	// Filename is reported in the part's Content-Disposition
	Filename string

	// ContentType is the part content type; application/octet-stream when empty
	ContentType string

	// Open returns a fresh reader over the file content. The reader is
	// closed once copied.
	Open func() (io.ReadCloser, error)
}

// Response is a fully read backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Success reports whether the backend answered with a 2xx status.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Request) accepts(status int) bool {
	if r.ExpectStatus != 0 {
		return status == r.ExpectStatus
	}
	return status >= 200 && status < 300
}

// Send performs req and returns the backend response whatever its status.
// The only error is a *TransportError when no response was received.
// Send does not add trace headers; the outbound request carries exactly the
// headers in req.Header.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	return c.do(ctx, req, false)
}

// Call performs req like Send, injects trace context into the outbound
// headers and returns a *StatusError for a status other than
// req.ExpectStatus, or for non-2xx responses when ExpectStatus is unset.
func (c *Client) Call(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.do(ctx, req, true)
	if err != nil {
		return nil, err
	}
	if !req.accepts(resp.StatusCode) {
		return resp, &StatusError{
			Backend:    req.Backend,
			URL:        req.URL,
			StatusCode: resp.StatusCode,
			Body:       truncate(resp.Text(), maxErrorBody),
		}
	}
	return resp, nil
}

// CallJSON performs req with Call and decodes the response body into out.
// A body that is not valid JSON for out yields a *ContractError.
func (c *Client) CallJSON(ctx context.Context, req *Request, out any) error {
	resp, err := c.Call(ctx, req)
	if err != nil {
		return err
	}
	return Decode(req.Backend, resp.Body, out)
}

// Decode unmarshals a backend payload, reporting failure as a *ContractError.
func Decode(backend string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &ContractError{
			Backend:     backend,
			Contract:    "json",
			RawResponse: truncate(string(body), maxErrorBody),
			Cause:       err,
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, req *Request, propagate bool) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	ctx, span := c.tracer.Start(ctx, "upstream."+req.Backend,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("upstream.backend", req.Backend),
			attribute.String("http.method", method),
			attribute.String("http.url", req.URL),
		),
	)
	defer span.End()

	body, contentType, err := encodeBody(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode request")
		return nil, &TransportError{Backend: req.Backend, URL: req.URL, Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, buildURL(req), body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, &TransportError{Backend: req.Backend, URL: req.URL, Cause: err}
	}

	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if propagate {
		tracing.Inject(ctx, httpReq.Header)
		if requestID := logging.GetRequestID(ctx); requestID != "" && httpReq.Header.Get(RequestIDHeader) == "" {
			httpReq.Header.Set(RequestIDHeader, requestID)
		}
	}

	slog.Debug("sending request to backend",
		"backend", req.Backend,
		"method", method,
		"url", req.URL,
	)

	start := time.Now()
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		duration := time.Since(start)
		c.observe(req.Backend, OutcomeTransportError, duration)

		tErr := &TransportError{
			Backend: req.Backend,
			URL:     req.URL,
			Timeout: isTimeout(err),
			Cause:   err,
		}
		span.RecordError(tErr)
		span.SetStatus(codes.Error, "transport failure")
		slog.Warn("backend request failed",
			"backend", req.Backend,
			"method", method,
			"url", req.URL,
			"timeout", tErr.Timeout,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return nil, tErr
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	duration := time.Since(start)
	if err != nil {
		c.observe(req.Backend, OutcomeTransportError, duration)
		span.RecordError(err)
		span.SetStatus(codes.Error, "read response")
		slog.Warn("failed to read backend response",
			"backend", req.Backend,
			"url", req.URL,
			"error", err,
		)
		return nil, &TransportError{
			Backend: req.Backend,
			URL:     req.URL,
			Timeout: isTimeout(err),
			Cause:   fmt.Errorf("failed to read response body: %w", err),
		}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if req.accepts(resp.StatusCode) {
		c.observe(req.Backend, OutcomeSuccess, duration)
		slog.Debug("backend request completed",
			"backend", req.Backend,
			"url", req.URL,
			"status", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)
	} else {
		c.observe(req.Backend, OutcomeHTTPError, duration)
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		slog.Debug("backend returned error status",
			"backend", req.Backend,
			"url", req.URL,
			"status", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
			"body", truncate(resp.Text(), maxErrorBody),
		)
	}

	return resp, nil
}

func (c *Client) observe(backend, outcome string, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(backend, outcome, d)
	}
}

func buildURL(req *Request) string {
	switch {
	case len(req.Query) > 0:
		return req.URL + "?" + req.Query.Encode()
	case req.RawQuery != "":
		return req.URL + "?" + req.RawQuery
	default:
		return req.URL
	}
}

// encodeBody returns the outbound body and the content type it implies.
func encodeBody(req *Request) (io.Reader, string, error) {
	switch {
	case len(req.Files) > 0:
		return encodeMultipart(req.Files)
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	case req.Body != nil:
		return bytes.NewReader(req.Body), "", nil
	default:
		return nil, "", nil
	}
}

func encodeMultipart(files []File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		if err := writePart(w, f); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func writePart(w *multipart.Writer, f File) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", f.Filename, err)
	}
	defer src.Close()

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", multipart.FileContentDisposition(f.Field, f.Filename))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create part for %q: %w", f.Filename, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("failed to copy %q: %w", f.Filename, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
