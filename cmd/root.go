package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/killallgit/voice-detector-api/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voice-detector-api",
	Short: "AI voice detection API server",
	Long: `Voice Detector API - detects AI-generated speech in audio samples

The service accepts base64-encoded MP3 speech samples in Tamil, English,
Hindi, Malayalam or Telugu, extracts acoustic features (cepstral bands,
pitch contour, spectral shape, tempo) and classifies the voice as
AI_GENERATED or HUMAN with a confidence score and a rule-based explanation.

Commands:
  serve   start the HTTP API
  train   rebuild the classifier model from synthetic data`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// loadConfig initializes configuration for commands that need it
func loadConfig() (*config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
