package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/voice-detector-api/api/types"
)

// Get handles health check requests
// @Summary      Health check
// @Description  Report process, database and model readiness
// @Tags         health
// @Produce      json
// @Success      200 {object} object "Service healthy"
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  databaseStatus(deps),
			"model":     modelStatus(deps),
		}
		c.JSON(http.StatusOK, response)
	}
}

func databaseStatus(deps *types.Dependencies) gin.H {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return gin.H{"status": "not configured"}
	}
	if err := deps.DB.HealthCheck(); err != nil {
		return gin.H{"status": "unhealthy", "error": err.Error()}
	}
	return gin.H{"status": "healthy"}
}

func modelStatus(deps *types.Dependencies) gin.H {
	if deps == nil || deps.DetectionService == nil {
		return gin.H{"status": "not configured"}
	}
	if !deps.DetectionService.ModelLoaded() {
		return gin.H{"status": "not loaded"}
	}
	return gin.H{"status": "loaded"}
}
