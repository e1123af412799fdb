package trainer

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/killallgit/voice-detector-api/internal/services/features"
)

// Sample is one labelled training example: a cepstral matrix shaped like the
// feature extractor's output and its class label (1 = synthetic, 0 = human).
type Sample struct {
	Cepstra [][]float64
	Label   float64
}

// Dataset holds disjoint training and validation splits drawn from the same
// seeded source, so the whole dataset is a pure function of its seed.
type Dataset struct {
	Train      []Sample
	Validation []Sample
}

// Distribution parameters for the two classes. Synthetic speech is modeled as
// near-constant cepstral bands with tiny frame-to-frame jitter; human speech
// gets the same band levels but a drifting contour and broadband noise.
const (
	bandLevelSigma = 4.0

	syntheticJitterSigma = 0.05

	humanDriftSigma = 0.8
	humanNoiseSigma = 0.5
)

// NewDataset draws balanced training and validation splits. The validation
// samples are drawn after the training samples from the same stream, so the
// splits never overlap and both are reproducible from the seed.
func NewDataset(seed uint64, trainCount, validationCount int) *Dataset {
	src := rand.NewSource(seed)
	rng := rand.New(src)

	level := distuv.Normal{Mu: 0, Sigma: bandLevelSigma, Src: src}
	jitter := distuv.Normal{Mu: 0, Sigma: syntheticJitterSigma, Src: src}
	drift := distuv.Normal{Mu: 0, Sigma: humanDriftSigma, Src: src}
	noise := distuv.Normal{Mu: 0, Sigma: humanNoiseSigma, Src: src}

	draw := func(count int) []Sample {
		samples := make([]Sample, count)
		for i := range samples {
			if i%2 == 0 {
				samples[i] = Sample{Cepstra: syntheticCepstra(level, jitter), Label: 1}
			} else {
				samples[i] = Sample{Cepstra: humanCepstra(level, drift, noise), Label: 0}
			}
		}
		rng.Shuffle(len(samples), func(a, b int) {
			samples[a], samples[b] = samples[b], samples[a]
		})
		return samples
	}

	return &Dataset{
		Train:      draw(trainCount),
		Validation: draw(validationCount),
	}
}

// syntheticCepstra emits flat band contours: each coefficient band sits at a
// fixed level for the whole clip, with jitter far below natural variation.
func syntheticCepstra(level, jitter distuv.Normal) [][]float64 {
	m := make([][]float64, features.NumCoefficients)
	for b := range m {
		base := level.Rand()
		row := make([]float64, features.NumFrames)
		for t := range row {
			row[t] = base + jitter.Rand()
		}
		m[b] = row
	}
	return m
}

// humanCepstra emits wandering band contours: each band starts at a level and
// random-walks across frames under broadband noise.
func humanCepstra(level, drift, noise distuv.Normal) [][]float64 {
	m := make([][]float64, features.NumCoefficients)
	for b := range m {
		value := level.Rand()
		row := make([]float64, features.NumFrames)
		for t := range row {
			value += drift.Rand()
			row[t] = value + noise.Rand()
		}
		m[b] = row
	}
	return m
}

// split separates a sample slice into the inputs and labels the classifier
// training step consumes.
func split(samples []Sample) (inputs [][][]float64, labels []float64) {
	inputs = make([][][]float64, len(samples))
	labels = make([]float64, len(samples))
	for i, s := range samples {
		inputs[i] = s.Cepstra
		labels[i] = s.Label
	}
	return inputs, labels
}
