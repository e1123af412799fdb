package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Waveform holds decoded mono PCM samples
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the waveform length in seconds
func (w *Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Decoder converts compressed audio bytes into mono PCM samples using ffmpeg
type Decoder struct {
	ffmpegPath  string
	sampleRate  int
	maxDuration time.Duration
	timeout     time.Duration
	tempDir     string
}

// NewDecoder creates a new ffmpeg-backed decoder
func NewDecoder(ffmpegPath string, sampleRate int, maxDuration, timeout time.Duration, tempDir string) *Decoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg" // Use system PATH
	}
	return &Decoder{
		ffmpegPath:  ffmpegPath,
		sampleRate:  sampleRate,
		maxDuration: maxDuration,
		timeout:     timeout,
		tempDir:     tempDir,
	}
}

// SampleRate returns the decoder's target sample rate
func (d *Decoder) SampleRate() int {
	return d.sampleRate
}

// ValidateBinary checks that ffmpeg is available
func (d *Decoder) ValidateBinary() error {
	if _, err := exec.LookPath(d.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, d.ffmpegPath)
	}
	return nil
}

// Decode converts MP3 (or any ffmpeg-readable) bytes to mono float64 PCM at the
// decoder's target sample rate.
func (d *Decoder) Decode(ctx context.Context, audioBytes []byte) (*Waveform, error) {
	if len(audioBytes) == 0 {
		return nil, ErrEmptyAudio
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	// ffmpeg needs a seekable input for some container formats, so the
	// compressed bytes go through a temp file rather than stdin.
	inputFile, cleanup, err := d.writeTemp(audioBytes)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	args := []string{
		"-i", inputFile,
		"-f", "f32le", // 32-bit float little-endian
		"-acodec", "pcm_f32le",
		"-ac", "1", // Convert to mono
		"-ar", fmt.Sprintf("%d", d.sampleRate),
	}
	if d.maxDuration > 0 {
		// Decode slightly past the cap so overlong input shows up as extra
		// samples instead of being silently truncated.
		probe := d.maxDuration + time.Second
		args = append(args, "-t", fmt.Sprintf("%.2f", probe.Seconds()))
	}
	args = append(args, "pipe:1")

	cmd := exec.CommandContext(ctx, d.ffmpegPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrDecodingTimeout
		}
		return nil, NewDecodeError("pcm_conversion", ErrInvalidAudioFile, stderr.String())
	}

	samples := pcmToFloat64(stdout.Bytes())
	if len(samples) == 0 {
		return nil, NewDecodeError("pcm_conversion", ErrInvalidAudioFile, "decoded stream contained no samples")
	}
	if err := d.checkDuration(len(samples)); err != nil {
		return nil, err
	}

	return &Waveform{
		Samples:    samples,
		SampleRate: d.sampleRate,
	}, nil
}

// checkDuration rejects decoded audio that runs past the configured cap
func (d *Decoder) checkDuration(sampleCount int) error {
	if d.maxDuration <= 0 {
		return nil
	}
	limit := int(d.maxDuration.Seconds() * float64(d.sampleRate))
	if sampleCount > limit {
		return fmt.Errorf("%w: %.1fs exceeds the %.1fs limit",
			ErrAudioTooLong,
			float64(sampleCount)/float64(d.sampleRate),
			d.maxDuration.Seconds())
	}
	return nil
}

// writeTemp writes audio bytes to a temp file and returns a cleanup func
func (d *Decoder) writeTemp(audioBytes []byte) (string, func(), error) {
	tempDir := d.tempDir
	if tempDir != "" {
		if err := os.MkdirAll(tempDir, 0755); err != nil {
			return "", nil, NewDecodeError("temp_file_creation", err, "")
		}
	}

	tempFile, err := os.CreateTemp(tempDir, "audio_upload_*")
	if err != nil {
		return "", nil, NewDecodeError("temp_file_creation", err, "")
	}

	cleanup := func() {
		_ = os.Remove(tempFile.Name())
	}

	if _, err := tempFile.Write(audioBytes); err != nil {
		tempFile.Close()
		cleanup()
		return "", nil, NewDecodeError("temp_file_write", err, "")
	}
	if err := tempFile.Close(); err != nil {
		cleanup()
		return "", nil, NewDecodeError("temp_file_write", err, "")
	}

	return filepath.Clean(tempFile.Name()), cleanup, nil
}

// pcmToFloat64 converts little-endian f32 PCM bytes to float64 samples
func pcmToFloat64(raw []byte) []float64 {
	n := len(raw) / 4
	samples := make([]float64, 0, n)
	for i := 0; i+4 <= len(raw); i += 4 {
		bits := binary.LittleEndian.Uint32(raw[i : i+4])
		f := math.Float32frombits(bits)
		// Corrupt streams can decode to non-finite values; treat them as silence.
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			f = 0
		}
		samples = append(samples, float64(f))
	}
	return samples
}

// ValidateFFmpegAvailable checks if ffmpeg is available on the system
func ValidateFFmpegAvailable(ffmpegPath string) error {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	cmd := exec.Command(ffmpegPath, "-version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg not available: %w", err)
	}

	if !strings.Contains(string(output), "ffmpeg version") {
		return fmt.Errorf("invalid ffmpeg binary")
	}

	return nil
}
