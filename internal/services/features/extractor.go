package features

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// silenceThreshold is the minimum peak amplitude for a waveform to be
// considered non-silent. f32 PCM decoded from real recordings sits well above
// this even for quiet speech.
const silenceThreshold = 1e-4

// logFloor keeps log energies finite for empty filterbank outputs
const logFloor = 1e-10

// Octave-spaced band edges (Hz) for the spectral contrast measure; the final
// band runs to the Nyquist frequency.
var contrastEdges = []float64{100, 200, 400, 800, 1600, 3200}

// Extractor turns decoded waveforms into fixed-shape feature bundles.
// It precomputes the analysis window, FFT plan, mel filterbank and DCT basis
// for its configured sample rate and is safe for concurrent use.
type Extractor struct {
	sampleRate int
	window     []float64
	fft        *fourier.FFT
	melFilters [][]float64
	dct        [][]float64
}

// NewExtractor creates an extractor for waveforms at the given sample rate
func NewExtractor(sampleRate int) (*Extractor, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	return &Extractor{
		sampleRate: sampleRate,
		window:     hannWindow(frameSize),
		fft:        fourier.NewFFT(frameSize),
		melFilters: melFilterbank(sampleRate),
		dct:        dctTable(),
	}, nil
}

// SampleRate returns the sample rate the extractor was built for
func (e *Extractor) SampleRate() int {
	return e.sampleRate
}

// MinSamples returns the minimum number of samples a waveform needs
func (e *Extractor) MinSamples() int {
	return frameSize
}

// Extract produces a Bundle from the waveform. The waveform must be mono PCM
// at the extractor's sample rate, at least one analysis frame long, and not
// silent; otherwise an error is returned and no bundle is produced.
func (e *Extractor) Extract(samples []float64, sampleRate int) (*Bundle, error) {
	if sampleRate != e.sampleRate {
		return nil, fmt.Errorf("%w: got %d, extractor built for %d", ErrInvalidSampleRate, sampleRate, e.sampleRate)
	}
	if len(samples) < frameSize {
		return nil, fmt.Errorf("%w: %d samples, need at least %d", ErrWaveformTooShort, len(samples), frameSize)
	}

	var peak float64
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak < silenceThreshold {
		return nil, ErrSilentWaveform
	}

	spec := stft(samples, e.window, e.fft)

	bundle := &Bundle{
		Cepstra:          e.cepstra(spec),
		ZeroCrossingRate: zeroCrossingRate(samples),
		Tempo:            tempoFromEnvelope(onsetEnvelope(spec), e.sampleRate),
	}
	e.spectralDescriptors(spec, bundle)
	e.pitchDescriptors(samples, bundle)

	if !bundle.Valid() {
		return nil, ErrNonFiniteFeature
	}

	return bundle, nil
}

// cepstra computes the cepstral coefficient matrix and normalizes the time
// axis to exactly NumFrames columns by zero padding or truncation.
func (e *Extractor) cepstra(spec [][]float64) [][]float64 {
	out := make([][]float64, NumCoefficients)
	for c := range out {
		out[c] = make([]float64, NumFrames)
	}

	frames := len(spec)
	if frames > NumFrames {
		frames = NumFrames
	}

	logMel := make([]float64, numMelBands)
	for f := 0; f < frames; f++ {
		mags := spec[f]
		for m, filter := range e.melFilters {
			var energy float64
			for k, w := range filter {
				if w != 0 {
					energy += w * mags[k] * mags[k]
				}
			}
			logMel[m] = math.Log(energy + logFloor)
		}
		for c := 0; c < NumCoefficients; c++ {
			var sum float64
			for m, basis := range e.dct[c] {
				sum += basis * logMel[m]
			}
			out[c][f] = sum
		}
	}
	// Columns past the last real frame stay zero (neutral padding)

	return out
}

// spectralDescriptors fills centroid, rolloff and contrast from the spectrogram
func (e *Extractor) spectralDescriptors(spec [][]float64, bundle *Bundle) {
	numBins := frameSize/2 + 1
	binHz := float64(e.sampleRate) / 2 / float64(numBins-1)

	centroids := make([]float64, 0, len(spec))
	rolloffs := make([]float64, 0, len(spec))
	contrasts := make([]float64, 0, len(spec))

	for _, mags := range spec {
		var total, weighted float64
		for k, m := range mags {
			total += m
			weighted += float64(k) * binHz * m
		}
		if total == 0 {
			continue
		}
		centroids = append(centroids, weighted/total)

		// Rolloff: frequency below which 85% of the spectral energy lies
		target := 0.85 * total
		var cum float64
		for k, m := range mags {
			cum += m
			if cum >= target {
				rolloffs = append(rolloffs, float64(k)*binHz)
				break
			}
		}

		contrasts = append(contrasts, frameContrast(mags, binHz))
	}

	if len(centroids) > 0 {
		bundle.SpectralCentroid = stat.Mean(centroids, nil)
		bundle.SpectralCentroidVar = variance(centroids)
	}
	if len(rolloffs) > 0 {
		bundle.SpectralRolloff = stat.Mean(rolloffs, nil)
	}
	if len(contrasts) > 0 {
		bundle.SpectralContrast = stat.Mean(contrasts, nil)
	}
}

// frameContrast measures the mean log peak-to-valley spread across octave bands
func frameContrast(mags []float64, binHz float64) float64 {
	edges := append(append([]float64{}, contrastEdges...), float64(len(mags)-1)*binHz)

	var sum float64
	var bands int
	lo := 0.0
	for _, hi := range edges {
		kLo := int(lo / binHz)
		kHi := int(hi / binHz)
		if kHi > len(mags) {
			kHi = len(mags)
		}
		if kHi-kLo >= 4 {
			peak, valley := bandPeakValley(mags[kLo:kHi])
			sum += math.Log(peak+logFloor) - math.Log(valley+logFloor)
			bands++
		}
		lo = hi
	}

	if bands == 0 {
		return 0
	}
	return sum / float64(bands)
}

// bandPeakValley averages the top and bottom fifth of band magnitudes
func bandPeakValley(band []float64) (peak, valley float64) {
	n := len(band) / 5
	if n < 1 {
		n = 1
	}

	sorted := append([]float64{}, band...)
	// Insertion sort: bands are small and this avoids pulling in sort for a
	// hot inner loop allocation
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	for i := 0; i < n; i++ {
		valley += sorted[i]
		peak += sorted[len(sorted)-1-i]
	}
	return peak / float64(n), valley / float64(n)
}

// pitchDescriptors estimates the fundamental frequency contour over voiced
// frames and fills its mean, variance and standard deviation. A waveform with
// no voiced frames reports zeros, matching the neutral behavior expected for
// unvoiced input.
func (e *Extractor) pitchDescriptors(samples []float64, bundle *Bundle) {
	numFrames := 1 + (len(samples)-frameSize)/hopSize

	// Energy gate: only frames with meaningful energy are searched for pitch
	rms := make([]float64, numFrames)
	var maxRMS float64
	for f := 0; f < numFrames; f++ {
		frame := samples[f*hopSize : f*hopSize+frameSize]
		var energy float64
		for _, s := range frame {
			energy += s * s
		}
		rms[f] = math.Sqrt(energy / frameSize)
		if rms[f] > maxRMS {
			maxRMS = rms[f]
		}
	}

	contour := make([]float64, 0, numFrames)
	for f := 0; f < numFrames; f++ {
		if rms[f] < 0.1*maxRMS {
			continue
		}
		frame := samples[f*hopSize : f*hopSize+frameSize]
		if pitch := autocorrPitch(frame, e.sampleRate); pitch > 0 {
			contour = append(contour, pitch)
		}
	}

	if len(contour) == 0 {
		return
	}

	bundle.PitchMean = stat.Mean(contour, nil)
	bundle.PitchVar = variance(contour)
	bundle.PitchStd = math.Sqrt(bundle.PitchVar)
}

// variance is the population variance; a single observation has variance 0
func variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := stat.Mean(xs, nil)
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs))
}
