package trainer

import (
	"context"
	"log"
	"math"
	"time"

	"golang.org/x/exp/rand"

	"github.com/killallgit/voice-detector-api/internal/services/classifier"
	apperrors "github.com/killallgit/voice-detector-api/pkg/errors"
)

// Options configures a training run. Zero values are filled with the defaults
// the shipped model was trained with.
type Options struct {
	Seed              uint64
	Epochs            int
	BatchSize         int
	LearningRate      float64
	TrainSamples      int
	ValidationSamples int
}

func (o *Options) applyDefaults() {
	if o.Epochs <= 0 {
		o.Epochs = 50
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 32
	}
	if o.LearningRate <= 0 {
		o.LearningRate = 0.001
	}
	if o.TrainSamples <= 0 {
		o.TrainSamples = 1000
	}
	if o.ValidationSamples <= 0 {
		o.ValidationSamples = 200
	}
}

// Summary reports the outcome of a completed training run
type Summary struct {
	Seed               uint64
	Epochs             int
	BestEpoch          int
	BestValidationLoss float64
	FinalTrainLoss     float64
	Duration           time.Duration
	ArtifactPath       string
}

// Trainer runs the synthetic-data training loop and persists the best model
type Trainer struct {
	store *classifier.Store
	opts  Options
}

// New creates a trainer that writes its best checkpoint through store
func New(store *classifier.Store, opts Options) *Trainer {
	opts.applyDefaults()
	return &Trainer{store: store, opts: opts}
}

// Run executes the full training loop. The dataset, weight initialization and
// dropout all derive from Options.Seed, so two runs with the same seed produce
// identical artifacts. The best-validation-loss checkpoint is the one
// persisted; if the loss ever becomes non-finite the run aborts with a
// divergence error and nothing is written. Cancelling ctx aborts between
// epochs without persisting.
func (t *Trainer) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	opts := t.opts

	log.Printf("[INFO] Training run starting: seed=%d epochs=%d batch=%d lr=%v",
		opts.Seed, opts.Epochs, opts.BatchSize, opts.LearningRate)

	ds := NewDataset(opts.Seed, opts.TrainSamples, opts.ValidationSamples)
	valInputs, valLabels := split(ds.Validation)

	rng := rand.New(rand.NewSource(opts.Seed))
	params := classifier.InitParameters(rng)
	grads := classifier.NewGradients(params)
	opt := newAdam(params.Tensors(), opts.LearningRate)

	var best *classifier.Parameters
	bestLoss := math.Inf(1)
	bestEpoch := 0
	var trainLoss float64

	order := make([]int, len(ds.Train))
	for i := range order {
		order[i] = i
	}

	for epoch := 1; epoch <= opts.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			log.Printf("[WARN] Training aborted before epoch %d: %v", epoch, err)
			return nil, err
		}

		rng.Shuffle(len(order), func(a, b int) {
			order[a], order[b] = order[b], order[a]
		})

		var epochLoss float64
		var batches int
		for lo := 0; lo < len(order); lo += opts.BatchSize {
			hi := lo + opts.BatchSize
			if hi > len(order) {
				hi = len(order)
			}

			inputs := make([][][]float64, 0, hi-lo)
			labels := make([]float64, 0, hi-lo)
			for _, idx := range order[lo:hi] {
				inputs = append(inputs, ds.Train[idx].Cepstra)
				labels = append(labels, ds.Train[idx].Label)
			}

			loss := params.TrainStep(inputs, labels, rng, grads)
			if math.IsNaN(loss) || math.IsInf(loss, 0) {
				log.Printf("[ERROR] Training diverged at epoch %d: loss=%v", epoch, loss)
				return nil, apperrors.TrainingDivergence(epoch, loss)
			}

			opt.step(params.Tensors(), grads.Tensors())
			epochLoss += loss
			batches++
		}
		trainLoss = epochLoss / float64(batches)

		valLoss := params.Loss(valInputs, valLabels)
		if math.IsNaN(valLoss) || math.IsInf(valLoss, 0) {
			log.Printf("[ERROR] Validation loss diverged at epoch %d: %v", epoch, valLoss)
			return nil, apperrors.TrainingDivergence(epoch, valLoss)
		}

		if valLoss < bestLoss {
			bestLoss = valLoss
			bestEpoch = epoch
			best = params.Clone()
			log.Printf("[INFO] Epoch %d/%d: train=%.4f val=%.4f (new best)",
				epoch, opts.Epochs, trainLoss, valLoss)
		} else {
			log.Printf("[DEBUG] Epoch %d/%d: train=%.4f val=%.4f", epoch, opts.Epochs, trainLoss, valLoss)
		}
	}

	best.BestValidationLoss = bestLoss
	best.BestEpoch = bestEpoch
	best.Seed = opts.Seed
	best.SavedAt = time.Now().UTC()

	if err := t.store.Save(best); err != nil {
		return nil, err
	}
	log.Printf("[INFO] Training complete: best epoch %d (val=%.4f), artifact %s",
		bestEpoch, bestLoss, t.store.Path())

	return &Summary{
		Seed:               opts.Seed,
		Epochs:             opts.Epochs,
		BestEpoch:          bestEpoch,
		BestValidationLoss: bestLoss,
		FinalTrainLoss:     trainLoss,
		Duration:           time.Since(start),
		ArtifactPath:       t.store.Path(),
	}, nil
}

// adam is the Adam optimizer over the flat tensor list
type adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	steps int
	m     [][]float64
	v     [][]float64
}

func newAdam(tensors [][]float64, lr float64) *adam {
	a := &adam{lr: lr, beta1: 0.9, beta2: 0.999, eps: 1e-8}
	a.m = make([][]float64, len(tensors))
	a.v = make([][]float64, len(tensors))
	for i, t := range tensors {
		a.m[i] = make([]float64, len(t))
		a.v[i] = make([]float64, len(t))
	}
	return a
}

// step applies one bias-corrected Adam update in place
func (a *adam) step(tensors, grads [][]float64) {
	a.steps++
	c1 := 1 - math.Pow(a.beta1, float64(a.steps))
	c2 := 1 - math.Pow(a.beta2, float64(a.steps))

	for i, t := range tensors {
		g := grads[i]
		m, v := a.m[i], a.v[i]
		for j := range t {
			m[j] = a.beta1*m[j] + (1-a.beta1)*g[j]
			v[j] = a.beta2*v[j] + (1-a.beta2)*g[j]*g[j]
			mHat := m[j] / c1
			vHat := v[j] / c2
			t[j] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}
