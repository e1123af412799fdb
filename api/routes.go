package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/voice-detector-api/api/detection"
	"github.com/killallgit/voice-detector-api/api/detections"
	"github.com/killallgit/voice-detector-api/api/health"
	"github.com/killallgit/voice-detector-api/api/types"
	"github.com/killallgit/voice-detector-api/api/version"
	_ "github.com/killallgit/voice-detector-api/docs/swagger"
	"github.com/killallgit/voice-detector-api/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, cfg *config.Config, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		deps = &types.Dependencies{}
	}

	// Public routes (no auth, no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine)

	// Swagger documentation
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	// API v1 routes behind API key auth
	v1 := engine.Group("/api/v1")
	v1.Use(APIKeyAuth(cfg.Auth.Header, cfg.Auth.APIKey))

	detectGroup := v1.Group("/detect")
	if cfg.RateLimiting.Enabled {
		detectGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized,
			cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.Burst))
	}
	detection.RegisterRoutes(detectGroup, deps)

	detections.RegisterRoutes(v1.Group("/detections"), deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		types.SendError(c, http.StatusNotFound, "Endpoint not found")
	}
}
