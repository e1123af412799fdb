package trainer

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/killallgit/voice-detector-api/internal/services/classifier"
	apperrors "github.com/killallgit/voice-detector-api/pkg/errors"
)

// smallOptions keeps test runs fast while exercising the full loop
func smallOptions(seed uint64) Options {
	return Options{
		Seed:              seed,
		Epochs:            2,
		BatchSize:         8,
		TrainSamples:      16,
		ValidationSamples: 8,
		LearningRate:      0.001,
	}
}

func TestRunPersistsBestCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	store := classifier.NewStore(path)

	summary, err := New(store, smallOptions(42)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.BestEpoch < 1 || summary.BestEpoch > 2 {
		t.Errorf("BestEpoch = %d, want within the run", summary.BestEpoch)
	}
	if math.IsNaN(summary.BestValidationLoss) || math.IsInf(summary.BestValidationLoss, 0) {
		t.Errorf("BestValidationLoss = %v, want finite", summary.BestValidationLoss)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() after training error = %v", err)
	}
	if loaded.Seed != 42 {
		t.Errorf("artifact seed = %d, want 42", loaded.Seed)
	}
	if loaded.BestEpoch != summary.BestEpoch {
		t.Errorf("artifact best epoch = %d, summary says %d", loaded.BestEpoch, summary.BestEpoch)
	}
	if loaded.SavedAt.IsZero() {
		t.Error("artifact SavedAt not set")
	}
}

func TestRunReproducible(t *testing.T) {
	dir := t.TempDir()
	storeA := classifier.NewStore(filepath.Join(dir, "a.json"))
	storeB := classifier.NewStore(filepath.Join(dir, "b.json"))

	if _, err := New(storeA, smallOptions(99)).Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if _, err := New(storeB, smallOptions(99)).Run(context.Background()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	a, err := storeA.Load()
	if err != nil {
		t.Fatal(err)
	}
	b, err := storeB.Load()
	if err != nil {
		t.Fatal(err)
	}

	ta, tb := a.Tensors(), b.Tensors()
	for i := range ta {
		for j := range ta[i] {
			if ta[i][j] != tb[i][j] {
				t.Fatalf("tensor %d entry %d differs between same-seed runs: %v vs %v",
					i, j, ta[i][j], tb[i][j])
			}
		}
	}
	if a.BestValidationLoss != b.BestValidationLoss {
		t.Errorf("best losses differ: %v vs %v", a.BestValidationLoss, b.BestValidationLoss)
	}
}

func TestRunCancelledWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	store := classifier.NewStore(path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(store, smallOptions(1)).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run(cancelled) error = %v, want context.Canceled", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("cancelled run should not persist an artifact")
	}
}

func TestRunDivergenceAbortsWithoutArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	store := classifier.NewStore(path)

	opts := smallOptions(7)
	opts.Epochs = 5
	// An overflow-scale step drives the weights to infinity after the first
	// update, so the next batch produces a non-finite loss.
	opts.LearningRate = 1e300

	_, err := New(store, opts).Run(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeTrainingDivergence) {
		t.Fatalf("Run() error = %v, want TRAINING_DIVERGENCE", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("diverged run should not persist an artifact")
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.applyDefaults()

	if o.Epochs != 50 || o.BatchSize != 32 || o.LearningRate != 0.001 {
		t.Errorf("loop defaults = %d/%d/%v, want 50/32/0.001", o.Epochs, o.BatchSize, o.LearningRate)
	}
	if o.TrainSamples != 1000 || o.ValidationSamples != 200 {
		t.Errorf("split defaults = %d/%d, want 1000/200", o.TrainSamples, o.ValidationSamples)
	}
}
