package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/types"
)

// UserQueryParam is the query parameter carrying the natural-language search.
const UserQueryParam = "user_query"

// QueryRunner runs the query orchestration pipeline.
type QueryRunner interface {
	Run(ctx context.Context, userQuery string) (json.RawMessage, error)
}

// QueryHandler serves GET /initial_query.
type QueryHandler struct {
	pipeline QueryRunner
}

// NewQueryHandler creates a QueryHandler.
func NewQueryHandler(pipeline QueryRunner) *QueryHandler {
	return &QueryHandler{pipeline: pipeline}
}

// ServeHTTP implements http.Handler.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	userQuery := strings.TrimSpace(r.URL.Query().Get(UserQueryParam))
	if userQuery == "" {
		writeError(ctx, w, types.NewGatewayError(http.StatusUnprocessableEntity,
			"Query parameter 'user_query' is required.", nil))
		return
	}

	slog.InfoContext(ctx, "processing property query", "query_length", len(userQuery))

	result, err := h.pipeline.Run(ctx, userQuery)
	if err != nil {
		gwErr := proxy.HandleError(err)
		slog.ErrorContext(ctx, "property query failed",
			"status", gwErr.Status,
			"error", err,
			"total_latency_ms", time.Since(startTime).Milliseconds(),
		)
		writeError(ctx, w, gwErr)
		return
	}

	slog.InfoContext(ctx, "property query successful",
		"total_latency_ms", time.Since(startTime).Milliseconds(),
	)
	writeRaw(ctx, w, http.StatusOK, result)
}

// writeError writes a {"detail": ...} body.
func writeError(ctx context.Context, w http.ResponseWriter, gwErr *types.GatewayError) {
	if err := proxy.WriteErrorResponse(w, gwErr); err != nil {
		slog.ErrorContext(ctx, "failed to write error response", "error", err)
	}
}

// writeRaw writes an already encoded JSON body.
func writeRaw(ctx context.Context, w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.DebugContext(ctx, "client went away while writing response", "error", err)
	}
}
