package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tlcintake/internal/session"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	manager *session.Manager
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(manager *session.Manager) *HealthHandler {
	return &HealthHandler{manager: manager}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": h.manager.Count(),
	})
}
