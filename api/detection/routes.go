package detection

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/voice-detector-api/api/types"
)

// RegisterRoutes registers voice detection routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.POST("", Post(deps))
}
