package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pitchside/matchpipe/internal/httputil"
	"github.com/pitchside/matchpipe/internal/ingest/domain"
	"github.com/pitchside/matchpipe/internal/ingest/http/dto"
)

// MatchStore reads persisted match rows.
type MatchStore interface {
	GetByKey(ctx context.Context, key string) (*domain.Match, error)
}

// MatchHandler serves persisted-match lookups by idempotency key.
type MatchHandler struct {
	store  MatchStore
	logger *slog.Logger
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(store MatchStore, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{store: store, logger: logger}
}

// RegisterRoutes registers the match routes.
func (h *MatchHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/matches/:key", h.GetHandler)
}

// GetHandler returns the persisted match for an idempotency key.
// GET /v1/matches/:key
func (h *MatchHandler) GetHandler(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("key cannot be empty"), h.logger)
		return
	}

	match, err := h.store.GetByKey(c.Request.Context(), key)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMatchToResponse(match))
}
