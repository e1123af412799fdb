package models

import "gorm.io/gorm"

// Training run states
const (
	TrainingRunCompleted = "completed"
	TrainingRunAborted   = "aborted"
	TrainingRunDiverged  = "diverged"
)

// TrainingRun records one full model rebuild and where its artifact went
type TrainingRun struct {
	gorm.Model
	Seed         uint64  `json:"seed" gorm:"not null"`
	Epochs       int     `json:"epochs" gorm:"not null"`
	BatchSize    int     `json:"batch_size"`
	LearningRate float64 `json:"learning_rate"`

	Status             string  `json:"status" gorm:"not null;default:completed"` // completed|aborted|diverged
	BestEpoch          int     `json:"best_epoch"`
	BestValidationLoss float64 `json:"best_validation_loss"`
	FinalTrainLoss     float64 `json:"final_train_loss"`
	DurationMS         int64   `json:"duration_ms"`
	ArtifactPath       string  `json:"artifact_path"`
}

// TableName returns the table name for the TrainingRun model
func (TrainingRun) TableName() string {
	return "training_runs"
}
