package types

import (
	"time"

	"github.com/killallgit/voice-detector-api/internal/models"
)

// Status values used in response bodies
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DetectionResponse is the successful analysis result
type DetectionResponse struct {
	Status          string  `json:"status" example:"success"`
	Language        string  `json:"language" example:"English"`
	Classification  string  `json:"classification" example:"AI_GENERATED"`
	ConfidenceScore float64 `json:"confidenceScore" example:"0.93"`
	Explanation     string  `json:"explanation"`
}

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message"`
}

// DetectionRecord is the stored-detection DTO for history listings
type DetectionRecord struct {
	UUID            string    `json:"uuid"`
	CreatedAt       time.Time `json:"createdAt"`
	Language        string    `json:"language"`
	Classification  string    `json:"classification"`
	ConfidenceScore float64   `json:"confidenceScore"`
	Explanation     string    `json:"explanation"`
	DurationSeconds float64   `json:"durationSeconds"`
}

// HistoryResponse lists stored detections
type HistoryResponse struct {
	Status     string            `json:"status" example:"success"`
	Detections []DetectionRecord `json:"detections"`
	Count      int               `json:"count"`
	Total      int64             `json:"total"`
	Offset     int               `json:"offset"`
}

// ToDetectionResponse converts a detection record into the wire response
func ToDetectionResponse(d *models.Detection) DetectionResponse {
	return DetectionResponse{
		Status:          StatusSuccess,
		Language:        d.Language,
		Classification:  d.Classification,
		ConfidenceScore: d.Confidence,
		Explanation:     d.Explanation,
	}
}

// ToDetectionRecord converts a stored detection into the history DTO
func ToDetectionRecord(d *models.Detection) DetectionRecord {
	return DetectionRecord{
		UUID:            d.UUID,
		CreatedAt:       d.CreatedAt,
		Language:        d.Language,
		Classification:  d.Classification,
		ConfidenceScore: d.Confidence,
		Explanation:     d.Explanation,
		DurationSeconds: d.DurationSeconds,
	}
}
