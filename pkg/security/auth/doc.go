/*
Package auth gates gateway routes on bearer tokens issued by the user service.

The gateway does not validate tokens itself. A Gate extracts the token from
the Authorization header and asks the user service's /verifyAccessToken
endpoint whether it is valid. The request is admitted only when the service
answers with the JSON boolean true; every other outcome, including the user
service being unreachable, rejects it.

# Basic Usage

	gate := auth.NewGate(client, cfg.Backends.UserURL)

	token, err := gate.Authorize(r.Context(), r)
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		// 401 auth.MessageMissingToken
	case errors.Is(err, auth.ErrInvalidToken):
		// 401 auth.MessageInvalidToken
	}

	ownerID, err := gate.UserID(r.Context(), token)

# Token Sources

Only the Authorization header is consulted. Both forms are accepted:

	Authorization: Bearer eyJhbGciOi...
	Authorization: eyJhbGciOi...

# Security Considerations

Token values are never logged; rejections log the request path and remote
address only.
*/
package auth
