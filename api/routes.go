package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/inboxpulse/inboxpulse/api/handlers"
	"github.com/inboxpulse/inboxpulse/api/middleware"
	"github.com/inboxpulse/inboxpulse/internal/logger"
	"github.com/inboxpulse/inboxpulse/internal/tracing"
	"github.com/inboxpulse/inboxpulse/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, s *services.Services, log logger.Logger, apikey string) {
	if s == nil {
		panic("Services cannot be nil")
	}

	// Add recovery middlewares
	r.Use(gin.Recovery())                                         // Gin's built-in recovery
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer())) // Our custom Jaeger recovery

	// Health check endpoint (no custom context needed)
	r.GET("/health", handlers.HealthCheck)

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-INBOXPULSE-API-KEY",
		ValidAPIKey: apikey,
	})

	// API group with version and custom context
	api := r.Group("/v1")
	api.Use(apiKeyMiddleware)
	api.Use(middleware.CustomContextMiddleware("inboxpulse")) // Add custom context for all /v1/* endpoints
	api.Use(middleware.TracingMiddleware())                   // Add tracing for all /v1/* endpoints
	{
		unread := api.Group("/unread")
		{
			unread.GET("", handlers.GetUnreadCounts(s.UnreadCounterService))
			unread.POST("/refresh", handlers.RefreshUnreadCounts(s.UnreadCounterService, log))
		}
	}
}
