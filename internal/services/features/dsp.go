package features

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Analysis window parameters. 2048/512 at 22050 Hz gives ~93 ms windows with
// 75% overlap, the usual speech analysis setup.
const (
	frameSize   = 2048
	hopSize     = 512
	numMelBands = 128
)

// Pitch search range in Hz covering typical speaking voices
const (
	minPitchHz = 50.0
	maxPitchHz = 400.0
)

// Tempo search range in BPM
const (
	minTempoBPM = 30.0
	maxTempoBPM = 240.0
)

// stft computes the magnitude spectrogram of the signal: one row of
// frameSize/2+1 magnitudes per hop. The signal must be at least one frame long.
func stft(samples []float64, window []float64, fft *fourier.FFT) [][]float64 {
	numFrames := 1 + (len(samples)-frameSize)/hopSize
	spec := make([][]float64, 0, numFrames)

	buf := make([]float64, frameSize)
	for f := 0; f < numFrames; f++ {
		offset := f * hopSize
		for i := 0; i < frameSize; i++ {
			buf[i] = samples[offset+i] * window[i]
		}

		coeffs := fft.Coefficients(nil, buf)
		mags := make([]float64, len(coeffs))
		for i, c := range coeffs {
			mags[i] = cmplxAbs(c)
		}
		spec = append(spec, mags)
	}

	return spec
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// hannWindow returns a Hann window of the given length
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// hzToMel converts a frequency in Hz to the mel scale
func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

// melToHz converts a mel value back to Hz
func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// melFilterbank builds numMelBands triangular filters over the FFT bins for
// the given sample rate. Each filter is a weight vector over frameSize/2+1 bins.
func melFilterbank(sampleRate int) [][]float64 {
	numBins := frameSize/2 + 1
	nyquist := float64(sampleRate) / 2

	// Band edges evenly spaced on the mel scale
	melLow := hzToMel(0)
	melHigh := hzToMel(nyquist)
	edges := make([]float64, numMelBands+2)
	for i := range edges {
		mel := melLow + (melHigh-melLow)*float64(i)/float64(numMelBands+1)
		edges[i] = melToHz(mel)
	}

	binHz := nyquist / float64(numBins-1)
	filters := make([][]float64, numMelBands)
	for m := 0; m < numMelBands; m++ {
		filter := make([]float64, numBins)
		left, center, right := edges[m], edges[m+1], edges[m+2]
		for k := 0; k < numBins; k++ {
			hz := float64(k) * binHz
			switch {
			case hz <= left || hz >= right:
				// outside the triangle
			case hz <= center:
				filter[k] = (hz - left) / (center - left)
			default:
				filter[k] = (right - hz) / (right - center)
			}
		}
		filters[m] = filter
	}

	return filters
}

// dctTable precomputes the orthonormal DCT-II basis mapping numMelBands log
// energies to NumCoefficients cepstral coefficients. gonum's fourier package
// has no DCT type, and the matrix is tiny, so a direct table is used.
func dctTable() [][]float64 {
	table := make([][]float64, NumCoefficients)
	scale0 := math.Sqrt(1.0 / float64(numMelBands))
	scale := math.Sqrt(2.0 / float64(numMelBands))
	for c := 0; c < NumCoefficients; c++ {
		row := make([]float64, numMelBands)
		s := scale
		if c == 0 {
			s = scale0
		}
		for m := 0; m < numMelBands; m++ {
			row[m] = s * math.Cos(math.Pi*float64(c)*(float64(m)+0.5)/float64(numMelBands))
		}
		table[c] = row
	}
	return table
}

// autocorrPitch estimates the fundamental frequency of one time-domain frame
// by normalized autocorrelation. Returns 0 when no confident pitch is found.
func autocorrPitch(frame []float64, sampleRate int) float64 {
	minLag := int(float64(sampleRate) / maxPitchHz)
	maxLag := int(float64(sampleRate) / minPitchHz)
	if maxLag >= len(frame) {
		maxLag = len(frame) - 1
	}
	if minLag < 1 || minLag >= maxLag {
		return 0
	}

	var energy float64
	for _, s := range frame {
		energy += s * s
	}
	if energy == 0 {
		return 0
	}

	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := 0; i+lag < len(frame); i++ {
			corr += frame[i] * frame[i+lag]
		}
		corr /= energy
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	// Unvoiced frames correlate weakly at every lag
	if bestLag == 0 || bestCorr < 0.5 {
		return 0
	}

	return float64(sampleRate) / float64(bestLag)
}

// onsetEnvelope computes per-frame spectral flux: the positive magnitude
// change summed over bins, a standard onset strength signal.
func onsetEnvelope(spec [][]float64) []float64 {
	if len(spec) == 0 {
		return nil
	}
	env := make([]float64, len(spec))
	for f := 1; f < len(spec); f++ {
		var flux float64
		for k := range spec[f] {
			d := spec[f][k] - spec[f-1][k]
			if d > 0 {
				flux += d
			}
		}
		env[f] = flux
	}
	return env
}

// tempoFromEnvelope finds the dominant periodicity of the onset envelope by
// autocorrelation and maps the winning lag to BPM. Returns 0 when the
// envelope is too short or flat to contain a beat.
func tempoFromEnvelope(env []float64, sampleRate int) float64 {
	hopDur := float64(hopSize) / float64(sampleRate)
	minLag := int(60 / (maxTempoBPM * hopDur)) // fast tempo, short lag
	maxLag := int(60 / (minTempoBPM * hopDur)) // slow tempo, long lag
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(env) {
		maxLag = len(env) - 1
	}
	if minLag >= maxLag {
		return 0
	}

	// Remove the mean so a constant envelope autocorrelates to zero
	var mean float64
	for _, v := range env {
		mean += v
	}
	mean /= float64(len(env))

	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := 0; i+lag < len(env); i++ {
			corr += (env[i] - mean) * (env[i+lag] - mean)
		}
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr <= 0 {
		return 0
	}

	return 60 / (float64(bestLag) * hopDur)
}

// zeroCrossingRate counts sign changes normalized by signal length
func zeroCrossingRate(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	var crossings float64
	for i := 1; i < len(samples); i++ {
		if (samples[i] >= 0) != (samples[i-1] >= 0) {
			crossings++
		}
	}
	return crossings / float64(len(samples))
}
