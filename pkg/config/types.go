package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string          `mapstructure:"environment"`
	Server       ServerConfig    `mapstructure:"server"`
	Auth         AuthConfig      `mapstructure:"auth"`
	Database     DatabaseConfig  `mapstructure:"database"`
	Model        ModelConfig     `mapstructure:"model"`
	Audio        AudioConfig     `mapstructure:"audio"`
	Training     TrainingConfig  `mapstructure:"training"`
	RateLimiting RateLimitConfig `mapstructure:"rate_limiting"`
	Security     SecurityConfig  `mapstructure:"security"`
	Logging      LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// AuthConfig contains API key authentication settings
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
	Header string `mapstructure:"header"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// ModelConfig contains model artifact settings
type ModelConfig struct {
	Path string `mapstructure:"path"`
}

// AudioConfig contains audio decoding settings
type AudioConfig struct {
	SampleRate    int           `mapstructure:"sample_rate"`
	MaxDuration   time.Duration `mapstructure:"max_duration"`
	FFmpegPath    string        `mapstructure:"ffmpeg_path"`
	FFmpegTimeout time.Duration `mapstructure:"ffmpeg_timeout"`
	TempDir       string        `mapstructure:"temp_dir"`
}

// TrainingConfig contains model training settings
type TrainingConfig struct {
	Seed              int64   `mapstructure:"seed"`
	Epochs            int     `mapstructure:"epochs"`
	BatchSize         int     `mapstructure:"batch_size"`
	LearningRate      float64 `mapstructure:"learning_rate"`
	TrainSamples      int     `mapstructure:"train_samples"`
	ValidationSamples int     `mapstructure:"validation_samples"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerSecond int  `mapstructure:"requests_per_second"`
	Burst             int  `mapstructure:"burst"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS      bool `mapstructure:"enable_cors"`
	EnableRequestID bool `mapstructure:"enable_request_id"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
