/*
Package security groups the gateway's security concerns.

# Authentication

Package auth implements the bearer-token gate used by authenticated routes.
The gateway holds no credentials of its own; tokens are verified by the user
service:

	gate := auth.NewGate(client, cfg.Backends.UserURL)
	token, err := gate.Authorize(ctx, r)
	if err != nil {
		// auth.ErrMissingToken or auth.ErrInvalidToken
	}
	userID, err := gate.UserID(ctx, token)

# Secret Management

Package secrets resolves "${secret:name}" references in configuration values,
such as the geolocation API key, from a mounted directory or the environment:

	security:
	  secrets:
	    file_dir: "/var/run/secrets/service-manager"
	    watch: true

	manager, err := secrets.NewManagerFromConfig(cfg.Security.Secrets)
	apiKey, err := manager.Resolve(ctx, cfg.Backends.Geolocation.APIKey)

File secrets are re-read when the directory changes, so a rotated key is used
on the next geocoding call.

# TLS

Package tls terminates TLS on the listener when security.tls.enabled is set
and reloads the certificate when it is renewed on disk.
*/
package security
