package classifier

import (
	"math"

	"github.com/killallgit/voice-detector-api/internal/services/features"
)

// Probability runs the network in inference mode and returns P(synthetic).
// It is a pure function of (cepstra, parameters): batch norm uses the stored
// running statistics and dropout is disabled, so repeated calls with the same
// input yield identical results and concurrent calls share the parameters
// safely.
func (p *Parameters) Probability(cepstra [][]float64) float64 {
	return sigmoid(p.logit(cepstra))
}

// logit runs the inference-mode forward pass up to the final scalar
func (p *Parameters) logit(cepstra [][]float64) float64 {
	x := cepstra
	for s := 0; s < 3; s++ {
		x = convForward(p.Conv[s], x)
		bnEval(p.Norm[s], x)
		reluChans(x)
		x = maxPool(x, nil)
	}

	emb := globalAvgPool(x)

	h := denseForward(p.FC[0], emb)
	reluVec(h)
	h = denseForward(p.FC[1], h)
	reluVec(h)
	return denseForward(p.FC[2], h)[0]
}

// Classify applies the decision rule to a feature bundle: the label is
// synthetic iff the probability is at least 0.5, and the confidence is the
// probability of the predicted class.
func (p *Parameters) Classify(bundle *features.Bundle) (label string, probability, confidence float64) {
	probability = p.Probability(bundle.Cepstra)
	return Decide(probability)
}

// Decide maps a raw P(synthetic) to (label, probability, confidence)
func Decide(probability float64) (string, float64, float64) {
	if probability >= 0.5 {
		return LabelSynthetic, probability, probability
	}
	return LabelHuman, probability, 1 - probability
}

// convForward applies a stride-1 convolution with zero padding 1, preserving
// the time axis length.
func convForward(l *ConvLayer, x [][]float64) [][]float64 {
	frames := len(x[0])
	pad := l.Kernel / 2
	y := make([][]float64, l.Out)
	for o := 0; o < l.Out; o++ {
		row := make([]float64, frames)
		for t := 0; t < frames; t++ {
			sum := l.B[o]
			for i := 0; i < l.In; i++ {
				xi := x[i]
				for k := 0; k < l.Kernel; k++ {
					ti := t + k - pad
					if ti >= 0 && ti < frames {
						sum += l.w(o, i, k) * xi[ti]
					}
				}
			}
			row[t] = sum
		}
		y[o] = row
	}
	return y
}

// bnEval normalizes each channel in place using running statistics
func bnEval(bn *BatchNorm, x [][]float64) {
	for c := range x {
		invStd := 1 / math.Sqrt(bn.RunningVar[c]+bnEps)
		gamma, beta, mean := bn.Gamma[c], bn.Beta[c], bn.RunningMean[c]
		for t := range x[c] {
			x[c][t] = gamma*(x[c][t]-mean)*invStd + beta
		}
	}
}

func reluChans(x [][]float64) {
	for c := range x {
		for t := range x[c] {
			if x[c][t] < 0 {
				x[c][t] = 0
			}
		}
	}
}

func reluVec(x []float64) {
	for i := range x {
		if x[i] < 0 {
			x[i] = 0
		}
	}
}

// maxPool halves the time axis with window and stride 2. When argmax is not
// nil it records, per channel, the input index that produced each output, for
// use by the backward pass.
func maxPool(x [][]float64, argmax [][]int) [][]float64 {
	frames := len(x[0]) / 2
	y := make([][]float64, len(x))
	for c := range x {
		row := make([]float64, frames)
		for t := 0; t < frames; t++ {
			a, b := x[c][2*t], x[c][2*t+1]
			if a >= b {
				row[t] = a
				if argmax != nil {
					argmax[c][t] = 2 * t
				}
			} else {
				row[t] = b
				if argmax != nil {
					argmax[c][t] = 2*t + 1
				}
			}
		}
		y[c] = row
	}
	return y
}

// globalAvgPool collapses the time axis to a per-channel mean
func globalAvgPool(x [][]float64) []float64 {
	emb := make([]float64, len(x))
	for c := range x {
		var sum float64
		for _, v := range x[c] {
			sum += v
		}
		emb[c] = sum / float64(len(x[c]))
	}
	return emb
}

func denseForward(l *DenseLayer, x []float64) []float64 {
	y := make([]float64, l.Out)
	for o := 0; o < l.Out; o++ {
		sum := l.B[o]
		row := l.W[o*l.In : (o+1)*l.In]
		for i, w := range row {
			sum += w * x[i]
		}
		y[o] = sum
	}
	return y
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// bceWithLogits is the numerically stable binary cross entropy on a logit
func bceWithLogits(logit, label float64) float64 {
	loss := logit - logit*label
	if logit < 0 {
		loss = -logit * label
	}
	return loss + math.Log(1+math.Exp(-math.Abs(logit)))
}
