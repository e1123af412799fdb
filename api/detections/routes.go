package detections

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/voice-detector-api/api/types"
)

// RegisterRoutes registers detection history routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", GetAll(deps))
	router.GET("/:uuid", GetByUUID(deps))
}
