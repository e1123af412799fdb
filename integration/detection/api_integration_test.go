package detection_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/killallgit/voice-detector-api/api"
	"github.com/killallgit/voice-detector-api/api/types"
	"github.com/killallgit/voice-detector-api/internal/database"
	"github.com/killallgit/voice-detector-api/internal/models"
	"github.com/killallgit/voice-detector-api/internal/services/classifier"
	"github.com/killallgit/voice-detector-api/internal/services/detections"
	"github.com/killallgit/voice-detector-api/internal/services/features"
	"github.com/killallgit/voice-detector-api/pkg/audio"
	"github.com/killallgit/voice-detector-api/pkg/config"
)

const (
	testAPIKey     = "integration-test-key"
	testSampleRate = 22050
)

// stubDecoder bypasses ffmpeg: it hands back a synthetic tone regardless of
// the submitted bytes, so the full pipeline downstream of decoding runs.
type stubDecoder struct{}

func (stubDecoder) Decode(ctx context.Context, audioBytes []byte) (*audio.Waveform, error) {
	samples := make([]float64, testSampleRate*2)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*220*float64(i)/testSampleRate)
	}
	return &audio.Waveform{Samples: samples, SampleRate: testSampleRate}, nil
}

type testSuite struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupSuite(t *testing.T) *testSuite {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.AutoMigrate(&models.Detection{}, &models.TrainingRun{}))

	extractor, err := features.NewExtractor(testSampleRate)
	require.NoError(t, err)

	params := classifier.InitParameters(rand.New(rand.NewSource(42)))
	repo := detections.NewRepository(db)
	service := detections.NewService(repo, extractor, params, "./models/test.json")

	deps := &types.Dependencies{
		DB:               &database.DB{DB: db},
		DetectionService: service,
		AudioDecoder:     stubDecoder{},
	}

	cfg := &config.Config{
		Auth: config.AuthConfig{APIKey: testAPIKey, Header: "x-api-key"},
		Server: config.ServerConfig{
			Port:         8080,
			MaxBodyBytes: 15 << 20,
		},
		RateLimiting: config.RateLimitConfig{Enabled: false},
		Security:     config.SecurityConfig{EnableCORS: true, EnableRequestID: true},
	}

	router := gin.New()
	router.Use(gin.Recovery())
	require.NoError(t, api.RegisterRoutes(router, deps, cfg, &sync.Map{}, make(chan struct{}), &sync.Once{}))

	return &testSuite{db: db, router: router}
}

func (s *testSuite) do(t *testing.T, method, path, apiKey string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func detectRequest() types.DetectRequest {
	return types.DetectRequest{
		Language:    "Hindi",
		AudioFormat: "mp3",
		AudioBase64: base64.StdEncoding.EncodeToString([]byte("pretend mp3")),
	}
}

func TestDetectEndToEnd(t *testing.T) {
	suite := setupSuite(t)

	w := suite.do(t, http.MethodPost, "/api/v1/detect", testAPIKey, detectRequest())
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var resp types.DetectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Hindi", resp.Language)
	assert.Contains(t, []string{"AI_GENERATED", "HUMAN"}, resp.Classification)
	assert.GreaterOrEqual(t, resp.ConfidenceScore, 0.5)
	assert.LessOrEqual(t, resp.ConfidenceScore, 1.0)
	assert.NotEmpty(t, resp.Explanation)

	// The analysis is persisted and visible through the history endpoint
	w = suite.do(t, http.MethodGet, "/api/v1/detections", testAPIKey, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var history types.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Equal(t, 1, history.Count)
	record := history.Detections[0]
	assert.Equal(t, resp.Classification, record.Classification)
	assert.NotEmpty(t, record.UUID)
	assert.WithinDuration(t, time.Now().UTC(), record.CreatedAt, time.Minute)

	// And retrievable individually
	w = suite.do(t, http.MethodGet, "/api/v1/detections/"+record.UUID, testAPIKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDetectRequiresAPIKey(t *testing.T) {
	suite := setupSuite(t)

	w := suite.do(t, http.MethodPost, "/api/v1/detect", "", detectRequest())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = suite.do(t, http.MethodPost, "/api/v1/detect", "wrong-key", detectRequest())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Health and version stay public
	w = suite.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = suite.do(t, http.MethodGet, "/version", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDetectRejectsBadRequests(t *testing.T) {
	suite := setupSuite(t)

	bad := detectRequest()
	bad.Language = "Spanish"
	w := suite.do(t, http.MethodPost, "/api/v1/detect", testAPIKey, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "unsupported language")
}

func TestUnknownRouteReturnsErrorBody(t *testing.T) {
	suite := setupSuite(t)

	w := suite.do(t, http.MethodGet, "/api/v1/nope", testAPIKey, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
}
