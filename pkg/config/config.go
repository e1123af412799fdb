package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		// Set default values
		setDefaults()

		// Set up environment variable reading for overrides
		viper.SetEnvPrefix("VOICEDETECT")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		// Load config from fixed location (cleaned for safety)
		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		// Try to read the config file
		if err := viper.ReadInConfig(); err != nil {
			// If the config file doesn't exist, just use defaults and env vars
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		// Validate the configuration
		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("model.path") == "" {
		return fmt.Errorf("model.path must not be empty")
	}

	sampleRate := viper.GetInt("audio.sample_rate")
	if sampleRate <= 0 {
		return fmt.Errorf("invalid audio sample rate: %d", sampleRate)
	}

	if err := validateAPIKey(); err != nil {
		return err
	}

	// A zero interval would make rate.Every panic when the limiter is built
	if viper.GetBool("rate_limiting.enabled") {
		if rps := viper.GetInt("rate_limiting.requests_per_second"); rps <= 0 {
			return fmt.Errorf("rate_limiting.requests_per_second must be positive when rate limiting is enabled, got %d", rps)
		}
		if burst := viper.GetInt("rate_limiting.burst"); burst <= 0 {
			return fmt.Errorf("rate_limiting.burst must be positive when rate limiting is enabled, got %d", burst)
		}
	}

	// Auto-correct invalid training values
	if viper.GetInt("training.epochs") <= 0 {
		viper.Set("training.epochs", 50)
	}
	if viper.GetInt("training.batch_size") <= 0 {
		viper.Set("training.batch_size", 32)
	}

	return nil
}

// validateAPIKey validates that the API key is not using a placeholder value
func validateAPIKey() error {
	env := viper.GetString("environment")
	isProduction := env == "production" || env == "prod"

	placeholders := []string{
		"YOUR_KEY_HERE",
		"YOUR_API_KEY",
		"changeme",
		"CHANGEME",
		"",
	}

	apiKey := viper.GetString("auth.api_key")
	for _, placeholder := range placeholders {
		if apiKey == placeholder {
			if isProduction {
				return fmt.Errorf("invalid API key: cannot use placeholder values in production")
			}
			fmt.Println("Warning: auth.api_key is using a placeholder value")
			break
		}
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Model.Path == "" {
		return fmt.Errorf("model.path must not be empty")
	}

	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("invalid audio sample rate: %d", c.Audio.SampleRate)
	}

	if c.RateLimiting.Enabled {
		if c.RateLimiting.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limiting.requests_per_second must be positive when rate limiting is enabled, got %d", c.RateLimiting.RequestsPerSecond)
		}
		if c.RateLimiting.Burst <= 0 {
			return fmt.Errorf("rate_limiting.burst must be positive when rate limiting is enabled, got %d", c.RateLimiting.Burst)
		}
	}

	if c.Training.Epochs <= 0 {
		c.Training.Epochs = 50
	}
	if c.Training.BatchSize <= 0 {
		c.Training.BatchSize = 32
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Environment defaults
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	// Base64 MP3 payloads are large; allow up to 15 MB request bodies.
	viper.SetDefault("server.max_body_bytes", 15728640)

	// Auth defaults
	viper.SetDefault("auth.api_key", "changeme")
	viper.SetDefault("auth.header", "x-api-key")

	// Database defaults
	viper.SetDefault("database.path", "./data/detections.db")
	viper.SetDefault("database.verbose", false)

	// Model defaults
	viper.SetDefault("model.path", "./models/voice_classifier.json")

	// Audio defaults
	viper.SetDefault("audio.sample_rate", 22050)
	viper.SetDefault("audio.max_duration", 30*time.Second)
	viper.SetDefault("audio.ffmpeg_path", "ffmpeg")
	viper.SetDefault("audio.ffmpeg_timeout", 1*time.Minute)
	viper.SetDefault("audio.temp_dir", "./tmp")

// Training defaults
	viper.SetDefault("training.seed", 42)
	viper.SetDefault("training.epochs", 50)
	viper.SetDefault("training.batch_size", 32)
	viper.SetDefault("training.learning_rate", 0.001)
	viper.SetDefault("training.train_samples", 1000)
	viper.SetDefault("training.validation_samples", 200)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.requests_per_second", 5)
	viper.SetDefault("rate_limiting.burst", 10)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.enable_request_id", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}
