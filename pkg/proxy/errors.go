package proxy

import (
	"errors"
	"fmt"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/types"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/security/auth"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/upstream"
)

// HandleError converts an error into the status and message returned to the
// client. Errors that already carry a client-facing translation keep it;
// auth and backend failures get their standard messages.
//
// Example usage:
//
//	if err != nil {
//	    WriteErrorResponse(w, HandleError(err))
//	    return
//	}
func HandleError(err error) *types.GatewayError {
	var gwErr *types.GatewayError
	if errors.As(err, &gwErr) {
		return gwErr
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ToGatewayError()
	}

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return types.NewUnauthorizedError(auth.MessageMissingToken, err)
	case errors.Is(err, auth.ErrInvalidToken):
		return types.NewUnauthorizedError(auth.MessageInvalidToken, err)
	}

	var transportErr *upstream.TransportError
	if errors.As(err, &transportErr) {
		return types.NewBadGatewayError(
			fmt.Sprintf("Failed to reach the %s service.", transportErr.Backend), err,
		)
	}

	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		return types.NewBadGatewayError(
			fmt.Sprintf("The %s service returned status %d.", statusErr.Backend, statusErr.StatusCode), err,
		)
	}

	var contractErr *upstream.ContractError
	if errors.As(err, &contractErr) {
		return types.NewBadGatewayError(
			fmt.Sprintf("The %s service returned an unexpected response.", contractErr.Backend), err,
		)
	}

	return types.NewServerError("An internal error occurred. Please try again later.", err)
}
