package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pitchside/matchpipe/internal/broker"
	"github.com/pitchside/matchpipe/internal/httputil"
	"github.com/pitchside/matchpipe/internal/ingest/http/dto"
)

// QuarantineStore inspects and manages dead-lettered messages.
type QuarantineStore interface {
	ListQuarantined(ctx context.Context, limit, offset int) ([]broker.QuarantinedMessage, error)
	CountQuarantined(ctx context.Context) (int64, error)
	GetQuarantined(ctx context.Context, id string) (*broker.QuarantinedMessage, error)
	ReplayQuarantined(ctx context.Context, id string) (*broker.QuarantinedMessage, error)
	DeleteQuarantined(ctx context.Context, id string) error
}

// QuarantineHandler serves inspection and replay of dead-lettered messages.
type QuarantineHandler struct {
	store  QuarantineStore
	logger *slog.Logger
}

// NewQuarantineHandler creates a new quarantine handler.
func NewQuarantineHandler(store QuarantineStore, logger *slog.Logger) *QuarantineHandler {
	return &QuarantineHandler{store: store, logger: logger}
}

// RegisterRoutes registers the quarantine routes.
func (h *QuarantineHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/quarantine", h.ListHandler)
	r.GET("/quarantine/:id", h.GetHandler)
	r.POST("/quarantine/:id/replay", h.ReplayHandler)
	r.DELETE("/quarantine/:id", h.DeleteHandler)
}

// ListHandler returns quarantined messages newest first.
// GET /v1/quarantine?limit=N&offset=M
func (h *QuarantineHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	messages, err := h.store.ListQuarantined(c.Request.Context(), limit, offset)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	total, err := h.store.CountQuarantined(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapQuarantinedToListResponse(messages, total))
}

// GetHandler returns a single quarantined message.
// GET /v1/quarantine/:id
func (h *QuarantineHandler) GetHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("id cannot be empty"), h.logger)
		return
	}

	message, err := h.store.GetQuarantined(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapQuarantinedToResponse(message))
}

// ReplayHandler republishes a quarantined message onto the processing
// stream with its attempt counter reset, then removes it from quarantine.
// POST /v1/quarantine/:id/replay
func (h *QuarantineHandler) ReplayHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("id cannot be empty"), h.logger)
		return
	}

	message, err := h.store.ReplayQuarantined(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("quarantined message replayed",
		slog.String("quarantine_id", id),
		slog.String("idempotency_key", message.Key),
	)
	c.JSON(http.StatusOK, dto.MapQuarantinedToResponse(message))
}

// DeleteHandler discards a quarantined message.
// DELETE /v1/quarantine/:id
func (h *QuarantineHandler) DeleteHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("id cannot be empty"), h.logger)
		return
	}

	if err := h.store.DeleteQuarantined(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("quarantined message deleted", slog.String("quarantine_id", id))
	c.Status(http.StatusNoContent)
}
