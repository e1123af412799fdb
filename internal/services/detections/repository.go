package detections

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/killallgit/voice-detector-api/internal/models"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new detection repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// CreateDetection stores a new detection record
func (r *RepositoryImpl) CreateDetection(ctx context.Context, detection *models.Detection) error {
	if err := r.db.WithContext(ctx).Create(detection).Error; err != nil {
		return fmt.Errorf("creating detection: %w", err)
	}
	return nil
}

// GetDetectionByUUID retrieves a detection by its UUID
func (r *RepositoryImpl) GetDetectionByUUID(ctx context.Context, uuid string) (*models.Detection, error) {
	var detection models.Detection
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&detection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDetectionNotFound
		}
		return nil, fmt.Errorf("getting detection: %w", err)
	}
	return &detection, nil
}

// ListDetections returns detections ordered newest first
func (r *RepositoryImpl) ListDetections(ctx context.Context, limit, offset int) ([]models.Detection, error) {
	var detections []models.Detection
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&detections).Error; err != nil {
		return nil, fmt.Errorf("listing detections: %w", err)
	}
	return detections, nil
}

// CountDetections returns the total number of stored detections
func (r *RepositoryImpl) CountDetections(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Detection{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting detections: %w", err)
	}
	return count, nil
}

// CreateTrainingRun stores a training run record
func (r *RepositoryImpl) CreateTrainingRun(ctx context.Context, run *models.TrainingRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("creating training run: %w", err)
	}
	return nil
}

// ListTrainingRuns returns training runs ordered newest first
func (r *RepositoryImpl) ListTrainingRuns(ctx context.Context, limit int) ([]models.TrainingRun, error) {
	var runs []models.TrainingRun
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("listing training runs: %w", err)
	}
	return runs, nil
}
