package detection

import (
	"encoding/base64"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/voice-detector-api/api/types"
	"github.com/killallgit/voice-detector-api/pkg/audio"
)

// Post handles voice detection requests
// @Summary      Analyze a speech sample for synthetic origin
// @Description  Decode a base64 MP3 sample, extract acoustic features and classify the voice as AI generated or human, with a rule-based explanation
// @Tags         detection
// @Accept       json
// @Produce      json
// @Param        request body types.DetectRequest true "Audio sample and language"
// @Success      200 {object} types.DetectionResponse "Classification result"
// @Failure      400 {object} types.ErrorResponse "Malformed request, unsupported language or undecodable audio"
// @Failure      401 {object} types.ErrorResponse "Missing or invalid API key"
// @Failure      500 {object} types.ErrorResponse "Internal failure"
// @Security     ApiKeyAuth
// @Router       /api/v1/detect [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.DetectRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		if err := req.Validate(); err != nil {
			types.SendBadRequest(c, err.Error())
			return
		}

		audioBytes, err := base64.StdEncoding.DecodeString(req.AudioBase64)
		if err != nil {
			types.SendBadRequest(c, "audioBase64 is not valid base64: "+err.Error())
			return
		}

		waveform, err := deps.AudioDecoder.Decode(c.Request.Context(), audioBytes)
		if err != nil {
			respondDecodeError(c, err)
			return
		}

		result, err := deps.DetectionService.Detect(
			c.Request.Context(),
			waveform.Samples,
			waveform.SampleRate,
			req.Language,
			int64(len(audioBytes)),
		)
		if err != nil {
			types.SendAppError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.ToDetectionResponse(result))
	}
}

// respondDecodeError distinguishes bad input from infrastructure trouble:
// undecodable or oversized audio is the caller's fault, a missing ffmpeg
// binary or a decode timeout is ours.
func respondDecodeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, audio.ErrEmptyAudio),
		errors.Is(err, audio.ErrInvalidAudioFile),
		errors.Is(err, audio.ErrAudioTooLong):
		types.SendBadRequest(c, "invalid audio data: "+err.Error())
	default:
		log.Printf("[ERROR] Audio decoding failed: %v", err)
		types.SendInternalError(c, "Audio decoding failed")
	}
}
