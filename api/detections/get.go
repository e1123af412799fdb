package detections

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/voice-detector-api/api/types"
	detectionsvc "github.com/killallgit/voice-detector-api/internal/services/detections"
)

// GetAll lists stored detections
// @Summary      List past detections
// @Description  Return previously analyzed samples, newest first
// @Tags         detections
// @Produce      json
// @Param        limit query int false "Page size (max 100)" default(20)
// @Param        offset query int false "Page offset" default(0)
// @Success      200 {object} types.HistoryResponse "Detection history"
// @Failure      401 {object} types.ErrorResponse "Missing or invalid API key"
// @Failure      500 {object} types.ErrorResponse "Internal failure"
// @Security     ApiKeyAuth
// @Router       /api/v1/detections [get]
func GetAll(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.HistoryRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			types.SendBadRequest(c, "Invalid query parameters: "+err.Error())
			return
		}

		records, total, err := deps.DetectionService.History(c.Request.Context(), req.Limit, req.Offset)
		if err != nil {
			types.SendAppError(c, err)
			return
		}

		out := make([]types.DetectionRecord, 0, len(records))
		for i := range records {
			out = append(out, types.ToDetectionRecord(&records[i]))
		}

		c.JSON(http.StatusOK, types.HistoryResponse{
			Status:     types.StatusSuccess,
			Detections: out,
			Count:      len(out),
			Total:      total,
			Offset:     req.Offset,
		})
	}
}

// GetByUUID returns one stored detection
// @Summary      Get a detection by UUID
// @Tags         detections
// @Produce      json
// @Param        uuid path string true "Detection UUID"
// @Success      200 {object} types.DetectionRecord "Stored detection"
// @Failure      404 {object} types.ErrorResponse "Unknown UUID"
// @Security     ApiKeyAuth
// @Router       /api/v1/detections/{uuid} [get]
func GetByUUID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := deps.DetectionService.GetByUUID(c.Request.Context(), c.Param("uuid"))
		if err != nil {
			if errors.Is(err, detectionsvc.ErrDetectionNotFound) {
				types.SendError(c, http.StatusNotFound, "Detection not found")
				return
			}
			types.SendAppError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.ToDetectionRecord(record))
	}
}
