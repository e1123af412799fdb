package detections

import (
	"context"

	"github.com/killallgit/voice-detector-api/internal/models"
)

// Repository defines the interface for detection data access
type Repository interface {
	// Detection records
	CreateDetection(ctx context.Context, detection *models.Detection) error
	GetDetectionByUUID(ctx context.Context, uuid string) (*models.Detection, error)
	ListDetections(ctx context.Context, limit, offset int) ([]models.Detection, error)
	CountDetections(ctx context.Context) (int64, error)

	// Training run records
	CreateTrainingRun(ctx context.Context, run *models.TrainingRun) error
	ListTrainingRuns(ctx context.Context, limit int) ([]models.TrainingRun, error)
}

// Service defines the interface for the voice analysis pipeline
type Service interface {
	// Detect runs the full inference pipeline on a decoded waveform: feature
	// extraction, classification and explanation. The returned record is also
	// persisted when a repository is configured.
	Detect(ctx context.Context, samples []float64, sampleRate int, language string, audioBytes int64) (*models.Detection, error)

	// History returns previously recorded detections, newest first
	History(ctx context.Context, limit, offset int) ([]models.Detection, int64, error)

	// GetByUUID returns one recorded detection
	GetByUUID(ctx context.Context, uuid string) (*models.Detection, error)

	// ModelLoaded reports whether inference is possible
	ModelLoaded() bool
}
