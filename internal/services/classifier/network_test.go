package classifier

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/killallgit/voice-detector-api/internal/services/features"
)

// randomCepstra builds an input matrix shaped like the extractor's output
func randomCepstra(rng *rand.Rand) [][]float64 {
	m := make([][]float64, features.NumCoefficients)
	for c := range m {
		m[c] = make([]float64, features.NumFrames)
		for t := range m[c] {
			m[c][t] = rng.NormFloat64()
		}
	}
	return m
}

func TestProbabilityRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := InitParameters(rng)

	for i := 0; i < 5; i++ {
		prob := p.Probability(randomCepstra(rng))
		if prob <= 0 || prob >= 1 || math.IsNaN(prob) {
			t.Fatalf("Probability() = %v, want a value strictly inside (0, 1)", prob)
		}
	}
}

func TestProbabilityDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p := InitParameters(rng)
	x := randomCepstra(rng)

	a := p.Probability(x)
	b := p.Probability(x)
	if a != b {
		t.Errorf("repeated inference differs: %v vs %v", a, b)
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name           string
		probability    float64
		wantLabel      string
		wantConfidence float64
	}{
		{"strongly synthetic", 0.95, LabelSynthetic, 0.95},
		{"boundary", 0.5, LabelSynthetic, 0.5},
		{"just under boundary", 0.4999, LabelHuman, 0.5001},
		{"strongly human", 0.05, LabelHuman, 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, prob, confidence := Decide(tt.probability)
			if label != tt.wantLabel {
				t.Errorf("label = %q, want %q", label, tt.wantLabel)
			}
			if prob != tt.probability {
				t.Errorf("probability = %v, want %v", prob, tt.probability)
			}
			if math.Abs(confidence-tt.wantConfidence) > 1e-9 {
				t.Errorf("confidence = %v, want %v", confidence, tt.wantConfidence)
			}
		})
	}
}

func TestCloneIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := InitParameters(rng)
	c := p.Clone()

	before := p.Conv[0].W[0]
	c.Conv[0].W[0] += 1
	c.Norm[1].RunningMean[0] += 1
	c.FC[2].B[0] += 1

	if p.Conv[0].W[0] != before {
		t.Error("mutating the clone changed the original conv weights")
	}
	if p.Norm[1].RunningMean[0] != 0 {
		t.Error("mutating the clone changed the original running stats")
	}
	if p.FC[2].B[0] != 0 {
		t.Error("mutating the clone changed the original dense bias")
	}
}

func TestTensorsShapeMatchesGradients(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	p := InitParameters(rng)
	g := NewGradients(p)

	pt, gt := p.Tensors(), g.Tensors()
	if len(pt) != len(gt) {
		t.Fatalf("tensor counts differ: %d vs %d", len(pt), len(gt))
	}
	for i := range pt {
		if len(pt[i]) != len(gt[i]) {
			t.Errorf("tensor %d: parameter len %d, gradient len %d", i, len(pt[i]), len(gt[i]))
		}
	}
}

func TestTrainStepProducesFiniteGradients(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := InitParameters(rng)
	g := NewGradients(p)

	batch := [][][]float64{randomCepstra(rng), randomCepstra(rng), randomCepstra(rng), randomCepstra(rng)}
	labels := []float64{1, 0, 1, 0}

	loss := p.TrainStep(batch, labels, rng, g)
	if math.IsNaN(loss) || math.IsInf(loss, 0) || loss <= 0 {
		t.Fatalf("TrainStep loss = %v, want a finite positive value", loss)
	}

	var nonZero bool
	for ti, tensor := range g.Tensors() {
		for j, v := range tensor {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("gradient tensor %d entry %d is not finite: %v", ti, j, v)
			}
			if v != 0 {
				nonZero = true
			}
		}
	}
	if !nonZero {
		t.Error("all gradients are zero after a training step")
	}
}

func TestTrainStepUpdatesRunningStats(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	p := InitParameters(rng)
	g := NewGradients(p)

	batch := [][][]float64{randomCepstra(rng), randomCepstra(rng)}
	p.TrainStep(batch, []float64{1, 0}, rng, g)

	var moved bool
	for _, v := range p.Norm[0].RunningVar {
		if v != 1 {
			moved = true
			break
		}
	}
	if !moved {
		t.Error("running variance unchanged after a training step")
	}
}

func TestLossMatchesBCE(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := InitParameters(rng)
	x := randomCepstra(rng)

	prob := p.Probability(x)
	want := -math.Log(prob)
	got := p.Loss([][][]float64{x}, []float64{1})
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Loss = %v, want %v (-log p for a positive label)", got, want)
	}
}
