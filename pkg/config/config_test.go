package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestInitDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if got := GetInt("server.port"); got != 8080 {
		t.Errorf("Expected default server.port to be 8080, got %d", got)
	}
	if got := GetInt("audio.sample_rate"); got != 22050 {
		t.Errorf("Expected default audio.sample_rate to be 22050, got %d", got)
	}
	// The cepstral geometry is fixed by the trained model, not configuration
	if viper.IsSet("features.coefficients") || viper.IsSet("features.frames") {
		t.Error("feature extraction geometry should not be configurable")
	}
	if got := GetString("model.path"); got == "" {
		t.Error("Expected default model.path to be set")
	}
	if got := GetDuration("audio.max_duration"); got != 30*time.Second {
		t.Errorf("Expected default audio.max_duration to be 30s, got %v", got)
	}
}

func TestConfigValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server: ServerConfig{Port: 8080},
			Model:  ModelConfig{Path: "./models/voice_classifier.json"},
			Audio:  AudioConfig{SampleRate: 22050},
			Training: TrainingConfig{
				Epochs:    50,
				BatchSize: 32,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: true,
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "empty model path",
			mutate:  func(c *Config) { c.Model.Path = "" },
			wantErr: true,
		},
		{
			name:    "invalid sample rate",
			mutate:  func(c *Config) { c.Audio.SampleRate = 0 },
			wantErr: true,
		},
		{
			name:    "zero epochs auto-corrected",
			mutate:  func(c *Config) { c.Training.Epochs = 0 },
			wantErr: false,
		},
		{
			name: "rate limiting enabled",
			mutate: func(c *Config) {
				c.RateLimiting = RateLimitConfig{Enabled: true, RequestsPerSecond: 5, Burst: 10}
			},
			wantErr: false,
		},
		{
			name: "rate limiting enabled with zero rps",
			mutate: func(c *Config) {
				c.RateLimiting = RateLimitConfig{Enabled: true, RequestsPerSecond: 0, Burst: 10}
			},
			wantErr: true,
		},
		{
			name: "rate limiting enabled with zero burst",
			mutate: func(c *Config) {
				c.RateLimiting = RateLimitConfig{Enabled: true, RequestsPerSecond: 5, Burst: 0}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.name == "zero epochs auto-corrected" && cfg.Training.Epochs != 50 {
				t.Errorf("Expected epochs to be corrected to 50, got %d", cfg.Training.Epochs)
			}
		})
	}
}
