package proxy

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/types"
)

// NewProxiedRequest captures r for forwarding. The body is read fully and
// limited to maxBodyBytes; a larger body yields a *RequestError with status
// 413. A non-positive limit disables the check.
func NewProxiedRequest(r *http.Request, maxBodyBytes int64) (*types.ProxiedRequest, error) {
	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		reader := io.Reader(r.Body)
		if maxBodyBytes > 0 {
			reader = io.LimitReader(r.Body, maxBodyBytes+1)
		}

		var err error
		body, err = io.ReadAll(reader)
		if err != nil {
			return nil, &RequestError{
				Status:  http.StatusBadRequest,
				Message: fmt.Sprintf("failed to read request body: %v", err),
			}
		}

		if maxBodyBytes > 0 && int64(len(body)) > maxBodyBytes {
			return nil, &RequestError{
				Status:  http.StatusRequestEntityTooLarge,
				Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBodyBytes),
			}
		}
	}

	return &types.ProxiedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     body,
	}, nil
}

// TargetURL joins a backend base URL with the inbound path and query. The
// "?" separator is only added for a non-empty query.
func TargetURL(baseURL, path, rawQuery string) string {
	target := strings.TrimRight(baseURL, "/") + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target
}

// RequestError represents an inbound request the gateway cannot accept.
type RequestError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// ToGatewayError converts a RequestError to a client-facing error.
func (e *RequestError) ToGatewayError() *types.GatewayError {
	return types.NewGatewayError(e.Status, e.Message, nil)
}
