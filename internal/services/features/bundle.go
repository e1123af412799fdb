package features

import "math"

// Feature matrix dimensions shared by the extractor, classifier and trainer.
const (
	// NumCoefficients is the number of cepstral coefficient bands per frame
	NumCoefficients = 40

	// NumFrames is the fixed number of time frames the cepstral matrix is
	// padded or truncated to
	NumFrames = 128
)

// Bundle is the fixed-shape feature representation of one waveform.
// The cepstral matrix always has NumCoefficients rows and NumFrames columns;
// the scalar descriptors summarize the full signal.
type Bundle struct {
	// Cepstra is the NumCoefficients x NumFrames cepstral coefficient matrix
	Cepstra [][]float64

	// Spectral shape descriptors
	SpectralCentroid    float64 // Mean spectral centroid in Hz
	SpectralCentroidVar float64 // Variance of the per-frame centroid
	SpectralRolloff     float64 // Mean 85% energy rolloff frequency in Hz
	SpectralContrast    float64 // Mean peak-to-valley contrast across bands (dB-like)

	// Pitch contour statistics in Hz
	PitchMean float64
	PitchVar  float64
	PitchStd  float64

	// Tempo estimate in BPM, 0 when no rhythmic periodicity was found
	Tempo float64

	// ZeroCrossingRate over the full signal, used as a micro-pause proxy
	ZeroCrossingRate float64
}

// Scalars returns the scalar descriptors in a stable order, mainly for
// finiteness checks and logging.
func (b *Bundle) Scalars() []float64 {
	return []float64{
		b.SpectralCentroid,
		b.SpectralCentroidVar,
		b.SpectralRolloff,
		b.SpectralContrast,
		b.PitchMean,
		b.PitchVar,
		b.PitchStd,
		b.Tempo,
		b.ZeroCrossingRate,
	}
}

// Valid reports whether the bundle has the fixed cepstral shape and only
// finite values.
func (b *Bundle) Valid() bool {
	if len(b.Cepstra) != NumCoefficients {
		return false
	}
	for _, row := range b.Cepstra {
		if len(row) != NumFrames {
			return false
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	for _, v := range b.Scalars() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
