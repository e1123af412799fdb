package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version is overridable at build time with -ldflags
var Version = "1.0.0"

// Get handles version requests
// @Summary      Service version
// @Tags         version
// @Produce      json
// @Success      200 {object} object "Service metadata"
// @Router       /version [get]
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Voice Detector API",
			"version":     Version,
			"description": "API for detecting AI-generated speech in audio samples",
			"status":      "running",
		})
	}
}
