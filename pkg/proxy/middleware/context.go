package middleware

import (
	"context"
	"net/http"
	"sync/atomic"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// routeKey stores the *routeHolder of a request.
const routeKey contextKey = "route"

// UnmatchedRoute labels requests no route pattern accepted.
const UnmatchedRoute = "unmatched"

// routeHolder is created by the outermost middleware and filled in by the
// matched route, so middleware that runs before routing can read the pattern
// once the handler returns.
type routeHolder struct {
	pattern atomic.Value
}

func withRouteHolder(ctx context.Context) (context.Context, *routeHolder) {
	if h, ok := ctx.Value(routeKey).(*routeHolder); ok {
		return ctx, h
	}
	h := &routeHolder{}
	return context.WithValue(ctx, routeKey, h), h
}

func (h *routeHolder) get() string {
	if p, ok := h.pattern.Load().(string); ok && p != "" {
		return p
	}
	return UnmatchedRoute
}

// Route wraps the handler registered for pattern and records the pattern in
// the request context. Use it for every registration so metrics and spans
// are labelled by route instead of raw path.
func Route(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := r.Context().Value(routeKey).(*routeHolder); ok {
			h.pattern.Store(pattern)
		}
		next.ServeHTTP(w, r)
	})
}

// GetRoute returns the route pattern recorded for ctx, or UnmatchedRoute.
func GetRoute(ctx context.Context) string {
	if h, ok := ctx.Value(routeKey).(*routeHolder); ok {
		return h.get()
	}
	return UnmatchedRoute
}
