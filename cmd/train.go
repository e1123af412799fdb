package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/killallgit/voice-detector-api/internal/database"
	"github.com/killallgit/voice-detector-api/internal/models"
	"github.com/killallgit/voice-detector-api/internal/services/classifier"
	"github.com/killallgit/voice-detector-api/internal/services/detections"
	"github.com/killallgit/voice-detector-api/internal/services/trainer"
	apperrors "github.com/killallgit/voice-detector-api/pkg/errors"
)

var (
	trainSeed   uint64
	trainEpochs int
	trainOutput string
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the voice classifier from synthetic data",
	Long: `Rebuild the classifier model from procedurally generated training data.

Training is fully deterministic for a given seed: the synthetic dataset,
weight initialization and regularization noise all derive from it. The
checkpoint with the lowest validation loss is written atomically to the
configured artifact path, and the run is recorded in the database.

Example:
  voice-detector-api train
  voice-detector-api train --seed 7 --epochs 100
  voice-detector-api train --output ./models/candidate.json`,
	RunE: runTraining,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().Uint64Var(&trainSeed, "seed", 0, "random seed (overrides config)")
	trainCmd.Flags().IntVar(&trainEpochs, "epochs", 0, "epoch count (overrides config)")
	trainCmd.Flags().StringVar(&trainOutput, "output", "", "artifact output path (overrides config)")
}

func runTraining(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	seed := uint64(cfg.Training.Seed)
	if cmd.Flags().Changed("seed") {
		seed = trainSeed
	}
	epochs := cfg.Training.Epochs
	if trainEpochs > 0 {
		epochs = trainEpochs
	}
	output := cfg.Model.Path
	if trainOutput != "" {
		output = trainOutput
	}

	opts := trainer.Options{
		Seed:              seed,
		Epochs:            epochs,
		BatchSize:         cfg.Training.BatchSize,
		LearningRate:      cfg.Training.LearningRate,
		TrainSamples:      cfg.Training.TrainSamples,
		ValidationSamples: cfg.Training.ValidationSamples,
	}

	// SIGINT aborts between epochs without persisting a partial artifact
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	summary, runErr := trainer.New(classifier.NewStore(output), opts).Run(ctx)

	recordTrainingRun(cfg.Database.Path, cfg.Database.Verbose, opts, output, summary, runErr)

	if runErr != nil {
		return fmt.Errorf("training failed: %w", runErr)
	}

	fmt.Printf("Training complete: best epoch %d/%d, validation loss %.4f, artifact %s (%s)\n",
		summary.BestEpoch, summary.Epochs, summary.BestValidationLoss,
		summary.ArtifactPath, summary.Duration.Round(1e7))
	return nil
}

// recordTrainingRun stores the run outcome; best effort, training results
// are already on disk when this runs.
func recordTrainingRun(dbPath string, verbose bool, opts trainer.Options, output string, summary *trainer.Summary, runErr error) {
	db, err := database.Initialize(dbPath, verbose)
	if err != nil {
		log.Printf("[WARN] Could not open database to record training run: %v", err)
		return
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.TrainingRun{}); err != nil {
		log.Printf("[WARN] Could not migrate training run table: %v", err)
		return
	}

	run := &models.TrainingRun{
		Seed:         opts.Seed,
		Epochs:       opts.Epochs,
		BatchSize:    opts.BatchSize,
		LearningRate: opts.LearningRate,
		ArtifactPath: output,
	}
	switch {
	case runErr == nil:
		run.Status = models.TrainingRunCompleted
		run.BestEpoch = summary.BestEpoch
		run.BestValidationLoss = summary.BestValidationLoss
		run.FinalTrainLoss = summary.FinalTrainLoss
		run.DurationMS = summary.Duration.Milliseconds()
	case apperrors.Is(runErr, apperrors.ErrCodeTrainingDivergence):
		run.Status = models.TrainingRunDiverged
	case errors.Is(runErr, context.Canceled):
		run.Status = models.TrainingRunAborted
	default:
		run.Status = models.TrainingRunAborted
	}

	repo := detections.NewRepository(db.DB)
	if err := repo.CreateTrainingRun(context.Background(), run); err != nil {
		log.Printf("[WARN] Could not record training run: %v", err)
	}
}
