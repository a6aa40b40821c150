package types

import "net/http"

// ProxiedRequest is an inbound request captured for forwarding to a backend.
// It is built once per inbound call and never modified afterwards.
type ProxiedRequest struct {
	// Method is the original HTTP method.
	Method string

	// Path is the original URL path, starting with "/".
	Path string

	// RawQuery is the original query string without the leading "?".
	RawQuery string

	// Header holds every inbound header.
	Header http.Header

	// Body is the fully read request body.
	Body []byte
}
