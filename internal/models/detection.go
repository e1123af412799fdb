package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Detection records the outcome of one voice analysis request
type Detection struct {
	gorm.Model
	UUID     string `json:"uuid" gorm:"uniqueIndex"`
	Language string `json:"language" gorm:"not null;index"`

	Classification string  `json:"classification" gorm:"not null;index"` // AI_GENERATED|HUMAN
	Probability    float64 `json:"probability" gorm:"not null"`          // P(synthetic)
	Confidence     float64 `json:"confidence" gorm:"not null"`
	Explanation    string  `json:"explanation" gorm:"type:text"`

	// Request metadata
	AudioBytes      int64   `json:"audio_bytes"`
	DurationSeconds float64 `json:"duration_seconds"`

	// Feature snapshot retained for offline threshold tuning
	PitchMean        float64 `json:"pitch_mean"`
	PitchStd         float64 `json:"pitch_std"`
	SpectralCentroid float64 `json:"spectral_centroid"`
	Tempo            float64 `json:"tempo"`
	ZeroCrossingRate float64 `json:"zero_crossing_rate"`
}

// BeforeCreate generates a UUID before creating a new detection
func (d *Detection) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == "" {
		d.UUID = uuid.New().String()
	}
	return nil
}

// TableName returns the table name for the Detection model
func (Detection) TableName() string {
	return "detections"
}
