package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"budgetwise/internal/logger"
)

// HealthHandler reports whether the API and its storage are reachable.
type HealthHandler struct {
	ping    func(ctx context.Context) error
	storage string
}

// NewHealthHandler creates a HealthHandler. ping may be nil for storage
// that cannot go away, such as the in-memory store.
func NewHealthHandler(storage string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping, storage: storage}
}

// HealthResponse is the body of the health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// Health checks the service status
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} HealthResponse "Healthy"
// @Failure     503 {object} HealthResponse "Storage unreachable"
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			logger.Get().Warnw("health check failed", "storage", h.storage, "error", err)
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Storage: h.storage})
			return
		}
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Storage: h.storage})
}
