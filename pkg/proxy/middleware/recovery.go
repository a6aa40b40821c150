package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/types"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and answers
// 500 {"detail": ...}. The panic and stack are logged; nothing internal is
// returned to the client. http.ErrAbortHandler is re-raised so net/http can
// abort the connection as intended.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if err == http.ErrAbortHandler {
				panic(err)
			}

			slog.ErrorContext(r.Context(), "panic in handler",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)

			errResp := types.NewServerError("An internal error occurred. Please try again later.", nil)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(errResp.Status)
			_ = json.NewEncoder(w).Encode(errResp.Response())
		}()

		next.ServeHTTP(w, r)
	})
}
