// Package logging configures the gateway's structured logger.
//
// The logger is a log/slog logger with JSON or text output. Records logged
// with a context pick up the request ID set by the request ID middleware and
// the active trace and span IDs:
//
//	logger, err := logging.Setup(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//		return err
//	}
//	slog.InfoContext(ctx, "forwarding request", "backend", "inventory")
//
// # Redaction
//
// With RedactSecrets enabled, credentials are masked before they are written:
//
//   - Bearer abc.def.ghi → Bearer ***
//   - /session?accessToken=abc → /session?accessToken=***
//   - /search?key=abc&q=Zurich → /search?key=***&q=Zurich
//   - attributes named like authorization, token, password or secret
package logging
