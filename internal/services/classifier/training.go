package classifier

import (
	"math"

	"golang.org/x/exp/rand"
)

// Gradients accumulates one minibatch of gradients, shaped exactly like the
// trainable tensors of Parameters. The layer types are reused for their
// storage; the batch norm running statistics are never touched here.
type Gradients struct {
	Conv [3]*ConvLayer
	Norm [3]*BatchNorm
	FC   [3]*DenseLayer
}

// NewGradients allocates a zeroed gradient buffer matching p
func NewGradients(p *Parameters) *Gradients {
	g := &Gradients{}
	for s := 0; s < 3; s++ {
		conv := p.Conv[s]
		g.Conv[s] = &ConvLayer{
			In:     conv.In,
			Out:    conv.Out,
			Kernel: conv.Kernel,
			W:      make([]float64, len(conv.W)),
			B:      make([]float64, len(conv.B)),
		}
		g.Norm[s] = &BatchNorm{
			Gamma: make([]float64, len(p.Norm[s].Gamma)),
			Beta:  make([]float64, len(p.Norm[s].Beta)),
		}
	}
	for i := 0; i < 3; i++ {
		g.FC[i] = &DenseLayer{
			In:  p.FC[i].In,
			Out: p.FC[i].Out,
			W:   make([]float64, len(p.FC[i].W)),
			B:   make([]float64, len(p.FC[i].B)),
		}
	}
	return g
}

// Tensors returns the gradient slices in the same order as Parameters.Tensors
func (g *Gradients) Tensors() [][]float64 {
	var ts [][]float64
	for s := 0; s < 3; s++ {
		ts = append(ts, g.Conv[s].W, g.Conv[s].B, g.Norm[s].Gamma, g.Norm[s].Beta)
	}
	for i := 0; i < 3; i++ {
		ts = append(ts, g.FC[i].W, g.FC[i].B)
	}
	return ts
}

func (g *Gradients) zero() {
	for _, t := range g.Tensors() {
		for i := range t {
			t[i] = 0
		}
	}
}

// stageCache holds the per-stage activations the backward pass needs
type stageCache struct {
	input  [][][]float64 // conv input, per sample
	xhat   [][][]float64 // batch-normalized values before the affine transform
	invStd []float64     // per-channel 1/sqrt(var+eps)
	relu   [][][]float64 // post-relu activations (pool input)
	argmax [][][]int     // pooling winner indices
}

// TrainStep runs one minibatch through the network in training mode (batch
// statistics for normalization, inverted dropout from rng), backpropagates the
// binary cross entropy against labels, and leaves the gradients in g. Batch
// norm running statistics are updated as a side effect. Returns the mean loss.
func (p *Parameters) TrainStep(batch [][][]float64, labels []float64, rng *rand.Rand, g *Gradients) float64 {
	n := len(batch)
	g.zero()

	var caches [3]*stageCache
	x := batch
	for s := 0; s < 3; s++ {
		c := &stageCache{input: x}

		z := make([][][]float64, n)
		for i := range x {
			z[i] = convForward(p.Conv[s], x[i])
		}
		c.xhat, c.invStd = bnTrain(p.Norm[s], z)
		for i := range z {
			reluChans(z[i])
		}
		c.relu = z

		pooled := make([][][]float64, n)
		c.argmax = make([][][]int, n)
		for i := range z {
			c.argmax[i] = make([][]int, len(z[i]))
			for ch := range z[i] {
				c.argmax[i][ch] = make([]int, len(z[i][ch])/2)
			}
			pooled[i] = maxPool(z[i], c.argmax[i])
		}

		x = pooled
		caches[s] = c
	}

	// Dense head with caches for the backward pass
	emb := make([][]float64, n)
	r1 := make([][]float64, n)
	d1 := make([][]float64, n)
	mask1 := make([][]float64, n)
	r2 := make([][]float64, n)
	d2 := make([][]float64, n)
	mask2 := make([][]float64, n)
	probs := make([]float64, n)

	var loss float64
	for i := range x {
		emb[i] = globalAvgPool(x[i])

		r1[i] = denseForward(p.FC[0], emb[i])
		reluVec(r1[i])
		d1[i], mask1[i] = dropout(r1[i], dropoutRates[0], rng)

		r2[i] = denseForward(p.FC[1], d1[i])
		reluVec(r2[i])
		d2[i], mask2[i] = dropout(r2[i], dropoutRates[1], rng)

		logit := denseForward(p.FC[2], d2[i])[0]
		probs[i] = sigmoid(logit)
		loss += bceWithLogits(logit, labels[i])
	}
	loss /= float64(n)

	// Backward through the dense head
	dPooled := make([][][]float64, n)
	for i := range x {
		dz := (probs[i] - labels[i]) / float64(n)

		fc2 := p.FC[2]
		dd2 := make([]float64, fc2.In)
		for j := 0; j < fc2.In; j++ {
			g.FC[2].W[j] += dz * d2[i][j]
			dd2[j] = dz * fc2.W[j]
		}
		g.FC[2].B[0] += dz

		da2 := backDropoutRelu(dd2, mask2[i], r2[i])
		dd1 := backDense(p.FC[1], g.FC[1], da2, d1[i])

		da1 := backDropoutRelu(dd1, mask1[i], r1[i])
		demb := backDense(p.FC[0], g.FC[0], da1, emb[i])

		// Global average pooling spreads the gradient evenly over time
		frames := len(x[i][0])
		dPooled[i] = make([][]float64, len(x[i]))
		for c := range x[i] {
			row := make([]float64, frames)
			for t := range row {
				row[t] = demb[c] / float64(frames)
			}
			dPooled[i][c] = row
		}
	}

	// Backward through the conv stages in reverse
	for s := 2; s >= 0; s-- {
		c := caches[s]

		dRelu := make([][][]float64, n)
		for i := range dPooled {
			dRelu[i] = make([][]float64, len(c.relu[i]))
			for ch := range c.relu[i] {
				row := make([]float64, len(c.relu[i][ch]))
				for t, src := range c.argmax[i][ch] {
					row[src] = dPooled[i][ch][t]
				}
				for t := range row {
					if c.relu[i][ch][t] <= 0 {
						row[t] = 0
					}
				}
				dRelu[i][ch] = row
			}
		}

		dConvOut := bnBackward(p.Norm[s], g.Norm[s], c, dRelu)

		dInput := make([][][]float64, n)
		for i := range dConvOut {
			dInput[i] = convBackward(p.Conv[s], g.Conv[s], c.input[i], dConvOut[i])
		}
		dPooled = dInput
	}

	return loss
}

// Loss computes the mean inference-mode loss over a labelled set
func (p *Parameters) Loss(samples [][][]float64, labels []float64) float64 {
	var sum float64
	for i, s := range samples {
		sum += bceWithLogits(p.logit(s), labels[i])
	}
	return sum / float64(len(samples))
}

// bnTrain normalizes each channel in place using statistics computed over the
// batch and time axes, updates the running statistics with momentum, and
// returns the pre-affine normalized values and inverse standard deviations.
func bnTrain(bn *BatchNorm, z [][][]float64) (xhat [][][]float64, invStd []float64) {
	channels := len(z[0])
	count := float64(len(z) * len(z[0][0]))

	xhat = make([][][]float64, len(z))
	for i := range z {
		xhat[i] = make([][]float64, channels)
		for c := 0; c < channels; c++ {
			xhat[i][c] = make([]float64, len(z[i][c]))
		}
	}
	invStd = make([]float64, channels)

	for c := 0; c < channels; c++ {
		var mean float64
		for i := range z {
			for _, v := range z[i][c] {
				mean += v
			}
		}
		mean /= count

		var varSum float64
		for i := range z {
			for _, v := range z[i][c] {
				d := v - mean
				varSum += d * d
			}
		}
		variance := varSum / count
		invStd[c] = 1 / math.Sqrt(variance+bnEps)

		bn.RunningMean[c] = (1-bnMomentum)*bn.RunningMean[c] + bnMomentum*mean
		bn.RunningVar[c] = (1-bnMomentum)*bn.RunningVar[c] + bnMomentum*variance

		gamma, beta := bn.Gamma[c], bn.Beta[c]
		for i := range z {
			for t, v := range z[i][c] {
				h := (v - mean) * invStd[c]
				xhat[i][c][t] = h
				z[i][c][t] = gamma*h + beta
			}
		}
	}
	return xhat, invStd
}

// bnBackward propagates gradients through batch normalization, accumulating
// the gamma and beta gradients into gNorm.
func bnBackward(bn *BatchNorm, gNorm *BatchNorm, c *stageCache, dy [][][]float64) [][][]float64 {
	channels := len(dy[0])
	count := float64(len(dy) * len(dy[0][0]))

	dx := make([][][]float64, len(dy))
	for i := range dy {
		dx[i] = make([][]float64, channels)
		for ch := 0; ch < channels; ch++ {
			dx[i][ch] = make([]float64, len(dy[i][ch]))
		}
	}

	for ch := 0; ch < channels; ch++ {
		gamma := bn.Gamma[ch]

		var sumDxhat, sumDxhatXhat float64
		for i := range dy {
			for t, d := range dy[i][ch] {
				h := c.xhat[i][ch][t]
				gNorm.Gamma[ch] += d * h
				gNorm.Beta[ch] += d
				dxhat := d * gamma
				sumDxhat += dxhat
				sumDxhatXhat += dxhat * h
			}
		}

		scale := c.invStd[ch] / count
		for i := range dy {
			for t, d := range dy[i][ch] {
				dxhat := d * gamma
				dx[i][ch][t] = scale * (count*dxhat - sumDxhat - c.xhat[i][ch][t]*sumDxhatXhat)
			}
		}
	}
	return dx
}

// convBackward accumulates weight and bias gradients for one sample and
// returns the gradient with respect to the layer input.
func convBackward(l *ConvLayer, gConv *ConvLayer, input [][]float64, dz [][]float64) [][]float64 {
	frames := len(input[0])
	pad := l.Kernel / 2

	dx := make([][]float64, l.In)
	for i := range dx {
		dx[i] = make([]float64, frames)
	}

	for o := 0; o < l.Out; o++ {
		dzo := dz[o]
		for t := 0; t < frames; t++ {
			gConv.B[o] += dzo[t]
		}
		for i := 0; i < l.In; i++ {
			xi := input[i]
			dxi := dx[i]
			base := (o*l.In + i) * l.Kernel
			for k := 0; k < l.Kernel; k++ {
				w := l.W[base+k]
				var dw float64
				for t := 0; t < frames; t++ {
					ti := t + k - pad
					if ti >= 0 && ti < frames {
						dw += dzo[t] * xi[ti]
						dxi[ti] += dzo[t] * w
					}
				}
				gConv.W[base+k] += dw
			}
		}
	}
	return dx
}

// dropout applies inverted dropout, returning the dropped activations and the
// per-unit scale mask (0 for dropped units, 1/keep otherwise).
func dropout(x []float64, rate float64, rng *rand.Rand) (out, mask []float64) {
	out = make([]float64, len(x))
	mask = make([]float64, len(x))
	keep := 1 - rate
	for i, v := range x {
		if rng.Float64() < keep {
			mask[i] = 1 / keep
			out[i] = v * mask[i]
		}
	}
	return out, mask
}

// backDropoutRelu propagates a gradient through a dropout mask and then the
// preceding relu (whose post-activation values are in act).
func backDropoutRelu(d, mask, act []float64) []float64 {
	out := make([]float64, len(d))
	for i := range d {
		if act[i] > 0 {
			out[i] = d[i] * mask[i]
		}
	}
	return out
}

// backDense accumulates gradients for a dense layer given the gradient of its
// outputs and its cached input, returning the gradient of the input.
func backDense(l *DenseLayer, gFC *DenseLayer, dOut, input []float64) []float64 {
	dIn := make([]float64, l.In)
	for o := 0; o < l.Out; o++ {
		d := dOut[o]
		if d == 0 {
			continue
		}
		gFC.B[o] += d
		row := l.W[o*l.In : (o+1)*l.In]
		gRow := gFC.W[o*l.In : (o+1)*l.In]
		for i := range row {
			gRow[i] += d * input[i]
			dIn[i] += d * row[i]
		}
	}
	return dIn
}
