package detections

import (
	"context"
	"errors"
	"log"

	"github.com/killallgit/voice-detector-api/internal/models"
	"github.com/killallgit/voice-detector-api/internal/services/classifier"
	"github.com/killallgit/voice-detector-api/internal/services/explainer"
	"github.com/killallgit/voice-detector-api/internal/services/features"
	apperrors "github.com/killallgit/voice-detector-api/pkg/errors"
)

// ServiceImpl implements the Service interface. The classifier parameters are
// loaded once at construction and shared read-only across concurrent calls;
// a nil parameters value means no trained artifact exists yet.
type ServiceImpl struct {
	repository   Repository
	extractor    *features.Extractor
	params       *classifier.Parameters
	artifactPath string
}

// NewService creates the analysis service. repository may be nil, in which
// case detections are returned but not recorded.
func NewService(repository Repository, extractor *features.Extractor, params *classifier.Parameters, artifactPath string) Service {
	return &ServiceImpl{
		repository:   repository,
		extractor:    extractor,
		params:       params,
		artifactPath: artifactPath,
	}
}

// Detect runs extraction, classification and explanation over the waveform.
// It never falls back to a default prediction: any pipeline failure is
// surfaced as a typed error and no record is produced.
func (s *ServiceImpl) Detect(ctx context.Context, samples []float64, sampleRate int, language string, audioBytes int64) (*models.Detection, error) {
	if s.params == nil {
		return nil, apperrors.ModelNotLoaded(s.artifactPath)
	}

	bundle, err := s.extractor.Extract(samples, sampleRate)
	if err != nil {
		return nil, mapExtractionError(err)
	}

	label, probability, confidence := s.params.Classify(bundle)
	explanation := explainer.Explain(bundle, label, probability)

	detection := &models.Detection{
		Language:         language,
		Classification:   label,
		Probability:      probability,
		Confidence:       confidence,
		Explanation:      explanation,
		AudioBytes:       audioBytes,
		DurationSeconds:  float64(len(samples)) / float64(sampleRate),
		PitchMean:        bundle.PitchMean,
		PitchStd:         bundle.PitchStd,
		SpectralCentroid: bundle.SpectralCentroid,
		Tempo:            bundle.Tempo,
		ZeroCrossingRate: bundle.ZeroCrossingRate,
	}

	// Persistence is best effort: a storage hiccup must not turn a completed
	// analysis into a request failure.
	if s.repository != nil {
		if err := s.repository.CreateDetection(ctx, detection); err != nil {
			log.Printf("[WARN] Failed to record detection: %v", err)
		}
	}

	return detection, nil
}

// mapExtractionError classifies an extractor failure: input defects the
// caller can fix are invalid audio, numeric failures are extraction errors.
func mapExtractionError(err error) error {
	switch {
	case errors.Is(err, features.ErrWaveformTooShort), errors.Is(err, features.ErrSilentWaveform):
		return apperrors.InvalidAudio(err.Error()).WithCause(err)
	default:
		return apperrors.FeatureExtractionError(err.Error()).WithCause(err)
	}
}

// History returns recorded detections plus the total count
func (s *ServiceImpl) History(ctx context.Context, limit, offset int) ([]models.Detection, int64, error) {
	if s.repository == nil {
		return nil, 0, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	detections, err := s.repository.ListDetections(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.DatabaseError("list detections", err)
	}
	total, err := s.repository.CountDetections(ctx)
	if err != nil {
		return nil, 0, apperrors.DatabaseError("count detections", err)
	}
	return detections, total, nil
}

// GetByUUID returns one recorded detection
func (s *ServiceImpl) GetByUUID(ctx context.Context, uuid string) (*models.Detection, error) {
	if s.repository == nil {
		return nil, ErrDetectionNotFound
	}
	return s.repository.GetDetectionByUUID(ctx, uuid)
}

// ModelLoaded reports whether classifier parameters are available
func (s *ServiceImpl) ModelLoaded() bool {
	return s.params != nil
}
