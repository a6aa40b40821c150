package proxy

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/types"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/security/auth"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/upstream"

	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "gateway error kept",
			err:        fmt.Errorf("stage: %w", types.NewNotFoundError("couldn't fetch coordinates", nil)),
			wantStatus: http.StatusNotFound,
			wantDetail: "couldn't fetch coordinates",
		},
		{
			name:       "missing token",
			err:        auth.ErrMissingToken,
			wantStatus: http.StatusUnauthorized,
			wantDetail: auth.MessageMissingToken,
		},
		{
			name:       "invalid token with cause",
			err:        fmt.Errorf("%w: %w", auth.ErrInvalidToken, errors.New("refused")),
			wantStatus: http.StatusUnauthorized,
			wantDetail: auth.MessageInvalidToken,
		},
		{
			name:       "transport failure",
			err:        &upstream.TransportError{Backend: "inventory", Cause: errors.New("refused")},
			wantStatus: http.StatusBadGateway,
			wantDetail: "Failed to reach the inventory service.",
		},
		{
			name:       "status failure",
			err:        &upstream.StatusError{Backend: "llm", StatusCode: 503},
			wantStatus: http.StatusBadGateway,
			wantDetail: "The llm service returned status 503.",
		},
		{
			name:       "contract failure",
			err:        &upstream.ContractError{Backend: "geolocation", Contract: "places"},
			wantStatus: http.StatusBadGateway,
			wantDetail: "The geolocation service returned an unexpected response.",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "An internal error occurred. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gwErr := HandleError(tt.err)
			assert.Equal(t, tt.wantStatus, gwErr.Status)
			assert.Equal(t, tt.wantDetail, gwErr.Detail)
		})
	}
}

func TestNewGatewayError_InvalidStatus(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, types.NewGatewayError(0, "x", nil).Status)
	assert.Equal(t, http.StatusTeapot, types.NewGatewayError(http.StatusTeapot, "x", nil).Status)
}
