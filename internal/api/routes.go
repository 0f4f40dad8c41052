package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, metricsHandler http.Handler) {
	// Prediction endpoint
	router.POST("/predict_explain", handler.PredictExplain)

	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.HEAD("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(metricsHandler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		metrics := v1.Group("/metrics")
		{
			metrics.GET("/ml-health", handler.GetMLHealth) // GET /api/v1/metrics/ml-health
		}
	}
}
