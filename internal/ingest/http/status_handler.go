// Package http provides the operational API handlers for the ingestion
// pipeline: processing status lookups, persisted match inspection, and
// quarantine management. This surface reads the pipeline's own state; the
// public match data API is a separate system.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pitchside/matchpipe/internal/httputil"
	"github.com/pitchside/matchpipe/internal/ingest/http/dto"
	"github.com/pitchside/matchpipe/internal/status"
)

// StatusStore reads per-message status records.
type StatusStore interface {
	Get(ctx context.Context, key string) (*status.Record, error)
}

// StatusHandler serves processing-status lookups by idempotency key.
type StatusHandler struct {
	store  StatusStore
	logger *slog.Logger
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(store StatusStore, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{store: store, logger: logger}
}

// RegisterRoutes registers the status routes.
func (h *StatusHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/status/:key", h.GetHandler)
}

// GetHandler returns the status record for an idempotency key.
// GET /v1/status/:key
func (h *StatusHandler) GetHandler(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("key cannot be empty"), h.logger)
		return
	}

	record, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStatusToResponse(record))
}
