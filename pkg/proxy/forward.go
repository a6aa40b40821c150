package proxy

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/types"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/upstream"
)

// Sender performs a backend call and returns the response whatever its status.
type Sender interface {
	Send(ctx context.Context, req *upstream.Request) (*upstream.Response, error)
}

// Authorizer admits or rejects an inbound request based on its token.
type Authorizer interface {
	Authorize(ctx context.Context, r *http.Request) (string, error)
}

// Backend identifies a forwarding target.
type Backend struct {
	// Name is the logical backend name used in logs and metrics.
	Name string

	// BaseURL is the scheme and host the inbound path is appended to.
	BaseURL string
}

// Engine forwards inbound requests to backends unchanged and relays the
// answers. It holds no per-request state and is safe for concurrent use.
type Engine struct {
	client       Sender
	gate         Authorizer
	maxBodyBytes int64
}

// NewEngine creates an Engine. gate may be nil when no authenticated routes
// are served.
func NewEngine(client Sender, gate Authorizer, maxBodyBytes int64) *Engine {
	return &Engine{
		client:       client,
		gate:         gate,
		maxBodyBytes: maxBodyBytes,
	}
}

// Forward sends req to backend with its original method, headers, body and
// query, and returns the backend's answer. It always returns a response: a
// backend that cannot be reached yields a 502 carrying {"detail": ...}.
func (e *Engine) Forward(ctx context.Context, backend Backend, req *types.ProxiedRequest) *types.BackendResponse {
	resp, err := e.client.Send(ctx, &upstream.Request{
		Backend:  backend.Name,
		Method:   req.Method,
		URL:      TargetURL(backend.BaseURL, req.Path, ""),
		RawQuery: req.RawQuery,
		Header:   req.Header,
		Body:     req.Body,
	})
	if err != nil {
		gwErr := HandleError(err)
		slog.WarnContext(ctx, "forwarding failed",
			"backend", backend.Name,
			"method", req.Method,
			"path", req.Path,
			"status", gwErr.Status,
			"error", err,
		)
		return errorBackendResponse(gwErr)
	}

	return &types.BackendResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}
}

// ForwardWithAuth verifies the caller's token and then forwards req. A
// rejected request gets a 401 and the backend is never called.
func (e *Engine) ForwardWithAuth(ctx context.Context, backend Backend, r *http.Request, req *types.ProxiedRequest) *types.BackendResponse {
	if e.gate == nil {
		return errorBackendResponse(types.NewServerError("An internal error occurred. Please try again later.", nil))
	}
	if _, err := e.gate.Authorize(ctx, r); err != nil {
		return errorBackendResponse(HandleError(err))
	}
	return e.Forward(ctx, backend, req)
}

// Handler returns an http.Handler forwarding every request to backend.
func (e *Engine) Handler(backend Backend) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := NewProxiedRequest(r, e.maxBodyBytes)
		if err != nil {
			_ = WriteErrorResponse(w, HandleError(err))
			return
		}
		e.write(w, r, e.Forward(r.Context(), backend, req))
	})
}

// AuthHandler returns an http.Handler forwarding authorized requests to backend.
func (e *Engine) AuthHandler(backend Backend) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := NewProxiedRequest(r, e.maxBodyBytes)
		if err != nil {
			_ = WriteErrorResponse(w, HandleError(err))
			return
		}
		e.write(w, r, e.ForwardWithAuth(r.Context(), backend, r, req))
	})
}

func (e *Engine) write(w http.ResponseWriter, r *http.Request, resp *types.BackendResponse) {
	if err := WriteBackendResponse(w, resp); err != nil {
		slog.DebugContext(r.Context(), "client went away while relaying response",
			"path", r.URL.Path,
			"error", err,
		)
	}
}
