package audio

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrFFmpegNotFound   = errors.New("ffmpeg binary not found")
	ErrInvalidAudioFile = errors.New("invalid or unsupported audio file")
	ErrAudioTooLong     = errors.New("audio exceeds maximum duration")
	ErrEmptyAudio       = errors.New("audio data is empty")
	ErrDecodingTimeout  = errors.New("audio decoding timeout")
)

// DecodeError represents an error during audio decoding
type DecodeError struct {
	Operation string // The operation that failed (e.g., "pcm_conversion")
	Err       error  // The underlying error
	Stderr    string // stderr output from ffmpeg
}

func (e *DecodeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("audio %s failed: %v (stderr: %s)", e.Operation, e.Err, e.Stderr)
	}
	return fmt.Sprintf("audio %s failed: %v", e.Operation, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a new DecodeError
func NewDecodeError(operation string, err error, stderr string) *DecodeError {
	return &DecodeError{
		Operation: operation,
		Err:       err,
		Stderr:    stderr,
	}
}
