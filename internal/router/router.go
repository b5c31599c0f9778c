package router

import (
	"github.com/gin-gonic/gin"

	"tlcintake/internal/handler"
	"tlcintake/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	sessionH *handler.SessionHandler,
	applicationH *handler.ApplicationHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Guided session flow
	sessions := v1.Group("/sessions")
	sessions.POST("", sessionH.Create)
	sessions.GET("/:id/prompt", sessionH.GetPrompt)
	sessions.POST("/:id/choice", sessionH.Choice)
	sessions.POST("/:id/text", sessionH.Text)
	sessions.POST("/:id/fields", sessionH.Fields)
	sessions.POST("/:id/documents", sessionH.Document)
	sessions.DELETE("/:id", sessionH.Delete)

	// One-shot application flow
	applications := v1.Group("/applications")
	applications.POST("/extract", applicationH.Extract)
	applications.POST("/submit", applicationH.Submit)

	return r
}
