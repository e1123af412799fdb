package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"
)

func TestPCMToFloat64(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
	}{
		{
			name:    "simple samples",
			samples: []float32{0, 0.5, -0.5, 1.0, -1.0},
		},
		{
			name:    "empty",
			samples: nil,
		},
		{
			name:    "single sample",
			samples: []float32{0.25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := make([]byte, 0, len(tt.samples)*4)
			for _, s := range tt.samples {
				var buf [4]byte
				binary.LittleEndian.PutUint32(buf[:], math.Float32bits(s))
				raw = append(raw, buf[:]...)
			}

			got := pcmToFloat64(raw)
			if len(got) != len(tt.samples) {
				t.Fatalf("pcmToFloat64() returned %d samples, want %d", len(got), len(tt.samples))
			}
			for i, want := range tt.samples {
				if math.Abs(got[i]-float64(want)) > 1e-9 {
					t.Errorf("sample %d = %v, want %v", i, got[i], want)
				}
			}
		})
	}
}

func TestPCMToFloat64NonFinite(t *testing.T) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(math.NaN())))

	got := pcmToFloat64(buf[:])
	if len(got) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(got))
	}
	if got[0] != 0 {
		t.Errorf("NaN sample should decode to 0, got %v", got[0])
	}
}

func TestPCMToFloat64TruncatedBytes(t *testing.T) {
	// 6 bytes is one full sample plus a truncated tail
	raw := []byte{0, 0, 0, 0, 1, 2}
	got := pcmToFloat64(raw)
	if len(got) != 1 {
		t.Errorf("expected truncated tail to be dropped, got %d samples", len(got))
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	d := NewDecoder("ffmpeg", 22050, 0, 0, t.TempDir())

	_, err := d.Decode(context.Background(), nil)
	if !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("Decode(nil) error = %v, want ErrEmptyAudio", err)
	}
}

func TestCheckDuration(t *testing.T) {
	d := NewDecoder("ffmpeg", 22050, 30*time.Second, 0, "")

	if err := d.checkDuration(30 * 22050); err != nil {
		t.Errorf("checkDuration(at cap) error = %v, want nil", err)
	}
	if err := d.checkDuration(31 * 22050); !errors.Is(err, ErrAudioTooLong) {
		t.Errorf("checkDuration(over cap) error = %v, want ErrAudioTooLong", err)
	}

	unlimited := NewDecoder("ffmpeg", 22050, 0, 0, "")
	if err := unlimited.checkDuration(1 << 30); err != nil {
		t.Errorf("checkDuration with no cap error = %v, want nil", err)
	}
}

func TestWaveformDuration(t *testing.T) {
	w := &Waveform{Samples: make([]float64, 44100), SampleRate: 22050}
	if got := w.Duration(); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("Duration() = %v, want 2.0", got)
	}

	empty := &Waveform{}
	if got := empty.Duration(); got != 0 {
		t.Errorf("Duration() on empty waveform = %v, want 0", got)
	}
}
