package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"formrelay/pkg/middleware"
)

// NewRouter registers the relay and health routes. Any path other than
// /health reaches the relay handler.
func NewRouter(handlers *Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	router.GET("/health", handlers.HealthCheck)
	router.POST("/", handlers.HandleFormSubmission)
	router.NoRoute(handlers.HandleFormSubmission)

	return router
}
