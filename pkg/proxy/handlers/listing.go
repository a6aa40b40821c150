package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy"
)

// ListingRunner runs the listing creation pipeline on an inbound request.
type ListingRunner interface {
	Run(ctx context.Context, r *http.Request) (json.RawMessage, error)
}

// ListingHandler serves POST /createProperty.
type ListingHandler struct {
	pipeline       ListingRunner
	maxUploadBytes int64
}

// NewListingHandler creates a ListingHandler. A non-positive maxUploadBytes
// disables the form size limit.
func NewListingHandler(pipeline ListingRunner, maxUploadBytes int64) *ListingHandler {
	return &ListingHandler{
		pipeline:       pipeline,
		maxUploadBytes: maxUploadBytes,
	}
}

// ServeHTTP implements http.Handler.
func (h *ListingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	result, err := h.pipeline.Run(ctx, r)
	if err != nil {
		gwErr := proxy.HandleError(err)
		slog.ErrorContext(ctx, "listing creation failed",
			"status", gwErr.Status,
			"error", err,
			"total_latency_ms", time.Since(startTime).Milliseconds(),
		)
		writeError(ctx, w, gwErr)
		return
	}

	slog.InfoContext(ctx, "listing created",
		"total_latency_ms", time.Since(startTime).Milliseconds(),
	)
	writeRaw(ctx, w, http.StatusOK, result)
}
