package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/types"
)

// hopHeaders are connection-scoped and never relayed between hops.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// WriteJSONResponse writes a JSON response to the HTTP response writer.
// It sets the appropriate content-type header and handles marshaling errors.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteErrorResponse writes {"detail": ...} with the error's status code.
func WriteErrorResponse(w http.ResponseWriter, gwErr *types.GatewayError) error {
	return WriteJSONResponse(w, gwErr.Status, gwErr.Response())
}

// WriteBackendResponse relays a backend response: headers, status and body.
func WriteBackendResponse(w http.ResponseWriter, resp *types.BackendResponse) error {
	dst := w.Header()
	for key, values := range resp.Header {
		dst[key] = append([]string(nil), values...)
	}
	for _, h := range hopHeaders {
		dst.Del(h)
	}

	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		return fmt.Errorf("failed to write backend response: %w", err)
	}
	return nil
}

// errorBackendResponse renders a gateway error as a response to relay.
func errorBackendResponse(gwErr *types.GatewayError) *types.BackendResponse {
	body, err := json.Marshal(gwErr.Response())
	if err != nil {
		body = []byte(`{"detail":"An internal error occurred."}`)
	}
	return &types.BackendResponse{
		StatusCode: gwErr.Status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       body,
	}
}
