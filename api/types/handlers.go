package types

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/killallgit/voice-detector-api/pkg/errors"
)

// Handler utility functions to reduce duplication across handlers

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		SendError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// SendError sends the uniform error body with the given HTTP status
func SendError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Status: StatusError, Message: message})
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

// SendUnauthorized sends a standardized unauthorized response
func SendUnauthorized(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, message)
}

// SendInternalError sends a standardized internal server error response
func SendInternalError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

// SendAppError maps a typed application error onto the wire format,
// using its HTTP code and human-readable message.
func SendAppError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		SendError(c, appErr.GetHTTPCode(), appErr.Message)
		return
	}
	SendInternalError(c, "Internal server error")
}
