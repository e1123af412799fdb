package features

import "errors"

var (
	// ErrWaveformTooShort is returned when the waveform is shorter than one analysis frame
	ErrWaveformTooShort = errors.New("waveform shorter than minimum analysis frame")

	// ErrSilentWaveform is returned when the waveform contains no measurable signal
	ErrSilentWaveform = errors.New("waveform contains only silence")

	// ErrInvalidSampleRate is returned when the sample rate is not positive
	ErrInvalidSampleRate = errors.New("invalid sample rate")

	// ErrNonFiniteFeature is returned when extraction produces a non-finite value
	ErrNonFiniteFeature = errors.New("extracted feature is not finite")
)
