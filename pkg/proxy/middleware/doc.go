// Package middleware provides the HTTP middleware every gateway route runs
// behind.
//
// The server chains them outermost first:
//
//	Recovery -> RequestID -> tracing -> Logging -> CORS -> mux
//
//   - RecoveryMiddleware turns a handler panic into 500 {"detail": ...}.
//   - RequestIDMiddleware keeps a well-formed X-Request-ID or generates a
//     UUID, and stores it in the context for log correlation.
//   - LoggingMiddleware logs one line per request and feeds the request
//     metrics, labelled by route pattern.
//   - CORSMiddleware answers preflights and sets the allow headers.
//
// Route labels come from Route, which wraps each handler at registration:
//
//	mux.Handle("GET /session", middleware.Route("GET /session", h))
//
// Requests that match no pattern are labelled "unmatched" so arbitrary
// paths cannot grow metric cardinality.
package middleware
