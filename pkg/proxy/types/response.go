package types

import "net/http"

// BackendResponse is what the gateway relays to the client on a
// pass-through route.
type BackendResponse struct {
	// StatusCode is the backend status, or the gateway's own status when
	// the backend could not be reached or the request was rejected.
	StatusCode int

	// Header holds the backend response headers.
	Header http.Header

	// Body is the backend response body.
	Body []byte
}
