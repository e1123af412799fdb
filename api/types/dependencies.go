package types

import (
	"context"

	"github.com/killallgit/voice-detector-api/internal/database"
	"github.com/killallgit/voice-detector-api/internal/services/detections"
	"github.com/killallgit/voice-detector-api/pkg/audio"
)

// AudioDecoder turns encoded audio bytes into a waveform. Satisfied by
// audio.Decoder; an interface so handler tests can stub the ffmpeg dependency.
type AudioDecoder interface {
	Decode(ctx context.Context, audioBytes []byte) (*audio.Waveform, error)
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB               *database.DB
	DetectionService detections.Service
	AudioDecoder     AudioDecoder
}
