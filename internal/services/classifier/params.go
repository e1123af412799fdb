package classifier

import (
	"math"
	"time"

	"golang.org/x/exp/rand"

	"github.com/killallgit/voice-detector-api/internal/services/features"
)

// Network dimensions. The input is the fixed cepstral matrix produced by the
// feature extractor; three conv stages halve the time axis each, and the
// dense head reduces the pooled embedding to one logit.
const (
	inputChannels = features.NumCoefficients
	inputFrames   = features.NumFrames
	kernelSize    = 3

	bnEps      = 1e-5
	bnMomentum = 0.1
)

var (
	convChannels = [3]int{64, 128, 256}
	denseSizes   = [2]int{128, 64}
	dropoutRates = [2]float64{0.5, 0.3}
)

// Classification labels
const (
	LabelSynthetic = "AI_GENERATED"
	LabelHuman     = "HUMAN"
)

// ConvLayer holds the weights of a 1-D convolution with padding 1
type ConvLayer struct {
	In     int       `json:"in"`
	Out    int       `json:"out"`
	Kernel int       `json:"kernel"`
	W      []float64 `json:"w"` // [out][in][kernel] flattened
	B      []float64 `json:"b"`
}

func (l *ConvLayer) w(o, i, k int) float64 {
	return l.W[(o*l.In+i)*l.Kernel+k]
}

// BatchNorm holds per-channel normalization parameters and running statistics
type BatchNorm struct {
	Gamma       []float64 `json:"gamma"`
	Beta        []float64 `json:"beta"`
	RunningMean []float64 `json:"running_mean"`
	RunningVar  []float64 `json:"running_var"`
}

// DenseLayer holds the weights of a fully connected layer
type DenseLayer struct {
	In  int       `json:"in"`
	Out int       `json:"out"`
	W   []float64 `json:"w"` // [out][in] flattened
	B   []float64 `json:"b"`
}

// Parameters is the full trainable state of the classifier plus the metadata
// recorded when a training run persists it. A loaded instance is treated as
// immutable and shared read-only across concurrent inference calls.
type Parameters struct {
	Conv [3]*ConvLayer `json:"conv"`
	Norm [3]*BatchNorm `json:"norm"`
	FC   [3]*DenseLayer `json:"fc"`

	BestValidationLoss float64   `json:"best_validation_loss"`
	BestEpoch          int       `json:"best_epoch"`
	Seed               uint64    `json:"seed"`
	SavedAt            time.Time `json:"saved_at"`
}

// InitParameters creates randomly initialized parameters using He
// initialization for the weights, driven by the given source.
func InitParameters(rng *rand.Rand) *Parameters {
	p := &Parameters{}

	in := inputChannels
	for s := 0; s < 3; s++ {
		out := convChannels[s]
		p.Conv[s] = initConv(rng, in, out)
		p.Norm[s] = initBatchNorm(out)
		in = out
	}

	p.FC[0] = initDense(rng, convChannels[2], denseSizes[0])
	p.FC[1] = initDense(rng, denseSizes[0], denseSizes[1])
	p.FC[2] = initDense(rng, denseSizes[1], 1)

	return p
}

func initConv(rng *rand.Rand, in, out int) *ConvLayer {
	l := &ConvLayer{
		In:     in,
		Out:    out,
		Kernel: kernelSize,
		W:      make([]float64, out*in*kernelSize),
		B:      make([]float64, out),
	}
	scale := math.Sqrt(2.0 / float64(in*kernelSize))
	for i := range l.W {
		l.W[i] = rng.NormFloat64() * scale
	}
	return l
}

func initBatchNorm(channels int) *BatchNorm {
	bn := &BatchNorm{
		Gamma:       make([]float64, channels),
		Beta:        make([]float64, channels),
		RunningMean: make([]float64, channels),
		RunningVar:  make([]float64, channels),
	}
	for c := 0; c < channels; c++ {
		bn.Gamma[c] = 1
		bn.RunningVar[c] = 1
	}
	return bn
}

func initDense(rng *rand.Rand, in, out int) *DenseLayer {
	l := &DenseLayer{
		In:  in,
		Out: out,
		W:   make([]float64, out*in),
		B:   make([]float64, out),
	}
	scale := math.Sqrt(2.0 / float64(in))
	for i := range l.W {
		l.W[i] = rng.NormFloat64() * scale
	}
	return l
}

// Clone returns a deep copy, used for best-checkpoint snapshots
func (p *Parameters) Clone() *Parameters {
	c := &Parameters{
		BestValidationLoss: p.BestValidationLoss,
		BestEpoch:          p.BestEpoch,
		Seed:               p.Seed,
		SavedAt:            p.SavedAt,
	}
	for s := 0; s < 3; s++ {
		c.Conv[s] = &ConvLayer{
			In:     p.Conv[s].In,
			Out:    p.Conv[s].Out,
			Kernel: p.Conv[s].Kernel,
			W:      append([]float64{}, p.Conv[s].W...),
			B:      append([]float64{}, p.Conv[s].B...),
		}
		c.Norm[s] = &BatchNorm{
			Gamma:       append([]float64{}, p.Norm[s].Gamma...),
			Beta:        append([]float64{}, p.Norm[s].Beta...),
			RunningMean: append([]float64{}, p.Norm[s].RunningMean...),
			RunningVar:  append([]float64{}, p.Norm[s].RunningVar...),
		}
	}
	for i := 0; i < 3; i++ {
		c.FC[i] = &DenseLayer{
			In:  p.FC[i].In,
			Out: p.FC[i].Out,
			W:   append([]float64{}, p.FC[i].W...),
			B:   append([]float64{}, p.FC[i].B...),
		}
	}
	return c
}

// Tensors returns the trainable weight slices in a stable order. Batch norm
// running statistics are excluded: they are updated during the forward pass,
// not by the optimizer.
func (p *Parameters) Tensors() [][]float64 {
	var ts [][]float64
	for s := 0; s < 3; s++ {
		ts = append(ts, p.Conv[s].W, p.Conv[s].B, p.Norm[s].Gamma, p.Norm[s].Beta)
	}
	for i := 0; i < 3; i++ {
		ts = append(ts, p.FC[i].W, p.FC[i].B)
	}
	return ts
}

// valid performs a structural sanity check on loaded parameters
func (p *Parameters) valid() bool {
	in := inputChannels
	for s := 0; s < 3; s++ {
		conv, norm := p.Conv[s], p.Norm[s]
		if conv == nil || norm == nil {
			return false
		}
		if conv.In != in || conv.Out != convChannels[s] || conv.Kernel != kernelSize {
			return false
		}
		if len(conv.W) != conv.Out*conv.In*conv.Kernel || len(conv.B) != conv.Out {
			return false
		}
		if len(norm.Gamma) != conv.Out || len(norm.Beta) != conv.Out ||
			len(norm.RunningMean) != conv.Out || len(norm.RunningVar) != conv.Out {
			return false
		}
		in = conv.Out
	}
	dims := []int{convChannels[2], denseSizes[0], denseSizes[1], 1}
	for i := 0; i < 3; i++ {
		fc := p.FC[i]
		if fc == nil || fc.In != dims[i] || fc.Out != dims[i+1] {
			return false
		}
		if len(fc.W) != fc.Out*fc.In || len(fc.B) != fc.Out {
			return false
		}
	}
	return true
}
