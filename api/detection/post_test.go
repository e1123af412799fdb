package detection

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/voice-detector-api/api/types"
	"github.com/killallgit/voice-detector-api/internal/models"
	"github.com/killallgit/voice-detector-api/internal/services/detections"
	"github.com/killallgit/voice-detector-api/pkg/audio"
	apperrors "github.com/killallgit/voice-detector-api/pkg/errors"
)

// stubDecoder returns a canned waveform or error
type stubDecoder struct {
	waveform *audio.Waveform
	err      error
}

func (s *stubDecoder) Decode(ctx context.Context, audioBytes []byte) (*audio.Waveform, error) {
	return s.waveform, s.err
}

// stubService returns a canned detection or error
type stubService struct {
	detection *models.Detection
	err       error
	loaded    bool
}

func (s *stubService) Detect(ctx context.Context, samples []float64, sampleRate int, language string, audioBytes int64) (*models.Detection, error) {
	if s.err != nil {
		return nil, s.err
	}
	d := *s.detection
	d.Language = language
	return &d, nil
}

func (s *stubService) History(ctx context.Context, limit, offset int) ([]models.Detection, int64, error) {
	return nil, 0, nil
}

func (s *stubService) GetByUUID(ctx context.Context, uuid string) (*models.Detection, error) {
	return nil, detections.ErrDetectionNotFound
}

func (s *stubService) ModelLoaded() bool {
	return s.loaded
}

func testRouter(deps *types.Dependencies) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	RegisterRoutes(engine.Group("/api/v1/detect"), deps)
	return engine
}

func goodDeps() *types.Dependencies {
	return &types.Dependencies{
		AudioDecoder: &stubDecoder{
			waveform: &audio.Waveform{Samples: make([]float64, 22050), SampleRate: 22050},
		},
		DetectionService: &stubService{
			loaded: true,
			detection: &models.Detection{
				Classification: "AI_GENERATED",
				Probability:    0.93,
				Confidence:     0.93,
				Explanation:    "Detected unnatural pitch consistency typical of AI synthesis",
			},
		},
	}
}

func doPost(t *testing.T, engine *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/detect", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func validRequest() types.DetectRequest {
	return types.DetectRequest{
		Language:    "English",
		AudioFormat: "mp3",
		AudioBase64: base64.StdEncoding.EncodeToString([]byte("fake mp3 bytes")),
	}
}

func TestPostSuccess(t *testing.T) {
	w := doPost(t, testRouter(goodDeps()), validRequest())

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.DetectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "English", resp.Language)
	assert.Equal(t, "AI_GENERATED", resp.Classification)
	assert.InDelta(t, 0.93, resp.ConfidenceScore, 1e-9)
	assert.NotEmpty(t, resp.Explanation)
}

func TestPostValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.DetectRequest)
		want   string
	}{
		{
			name:   "missing language",
			mutate: func(r *types.DetectRequest) { r.Language = "" },
			want:   "Invalid request body",
		},
		{
			name:   "unsupported language",
			mutate: func(r *types.DetectRequest) { r.Language = "French" },
			want:   "unsupported language",
		},
		{
			name:   "unsupported format",
			mutate: func(r *types.DetectRequest) { r.AudioFormat = "wav" },
			want:   "unsupported audio format",
		},
		{
			name:   "invalid base64",
			mutate: func(r *types.DetectRequest) { r.AudioBase64 = "!!! not base64 !!!" },
			want:   "not valid base64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			w := doPost(t, testRouter(goodDeps()), req)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp types.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Contains(t, resp.Message, tt.want)
		})
	}
}

func TestPostUndecodableAudio(t *testing.T) {
	deps := goodDeps()
	deps.AudioDecoder = &stubDecoder{err: audio.ErrInvalidAudioFile}

	w := doPost(t, testRouter(deps), validRequest())
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "invalid audio data")
}

func TestPostAudioTooLong(t *testing.T) {
	deps := goodDeps()
	deps.AudioDecoder = &stubDecoder{err: audio.ErrAudioTooLong}

	w := doPost(t, testRouter(deps), validRequest())
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "invalid audio data")
}

func TestPostDecoderInfrastructureFailure(t *testing.T) {
	deps := goodDeps()
	deps.AudioDecoder = &stubDecoder{err: audio.ErrFFmpegNotFound}

	w := doPost(t, testRouter(deps), validRequest())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPostModelNotLoaded(t *testing.T) {
	deps := goodDeps()
	deps.DetectionService = &stubService{err: apperrors.ModelNotLoaded("./models/voice_classifier.json")}

	w := doPost(t, testRouter(deps), validRequest())
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "no model parameters loaded")
}

func TestPostFeatureExtractionFailure(t *testing.T) {
	deps := goodDeps()
	deps.DetectionService = &stubService{err: apperrors.FeatureExtractionError("non-finite feature value")}

	w := doPost(t, testRouter(deps), validRequest())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
