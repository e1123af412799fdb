package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/killallgit/voice-detector-api/api"
	"github.com/killallgit/voice-detector-api/api/types"
	"github.com/killallgit/voice-detector-api/internal/database"
	"github.com/killallgit/voice-detector-api/internal/models"
	"github.com/killallgit/voice-detector-api/internal/services/classifier"
	"github.com/killallgit/voice-detector-api/internal/services/detections"
	"github.com/killallgit/voice-detector-api/internal/services/features"
	"github.com/killallgit/voice-detector-api/pkg/audio"
	"github.com/killallgit/voice-detector-api/pkg/config"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the voice detection API server with the configured settings.

The server loads the trained classifier artifact once at startup and
serves analysis requests concurrently against the same parameters.

Example:
  voice-detector-api serve
  voice-detector-api serve --port 9090
  voice-detector-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.Detection{}, &models.TrainingRun{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	deps, err := buildDependencies(cfg, db)
	if err != nil {
		return err
	}

	server := api.NewServer(fmt.Sprintf("%s:%d", serverHost, serverPort))
	server.SetDependencies(deps)
	if err := server.Initialize(cfg); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	log.Printf("[INFO] Starting voice detector API on %s:%d", serverHost, serverPort)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-stop:
		log.Printf("[INFO] Shutting down server...")
	case err := <-serverErr:
		log.Printf("[ERROR] %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Printf("[INFO] Server gracefully stopped")
	return nil
}

// buildDependencies wires the analysis pipeline: ffmpeg decoder, feature
// extractor and classifier parameters. A missing model artifact is not fatal
// at startup; requests fail with a typed error until training has run.
func buildDependencies(cfg *config.Config, db *database.DB) (*types.Dependencies, error) {
	decoder := audio.NewDecoder(
		cfg.Audio.FFmpegPath,
		cfg.Audio.SampleRate,
		cfg.Audio.MaxDuration,
		cfg.Audio.FFmpegTimeout,
		cfg.Audio.TempDir,
	)
	if err := decoder.ValidateBinary(); err != nil {
		return nil, fmt.Errorf("ffmpeg not usable: %w", err)
	}

	extractor, err := features.NewExtractor(cfg.Audio.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to build feature extractor: %w", err)
	}

	store := classifier.NewStore(cfg.Model.Path)
	params, err := store.Load()
	if err != nil {
		if errors.Is(err, classifier.ErrArtifactNotFound) {
			log.Printf("[WARN] No model artifact at %s; run `voice-detector-api train` first", cfg.Model.Path)
			params = nil
		} else {
			return nil, fmt.Errorf("failed to load model artifact: %w", err)
		}
	} else {
		log.Printf("[INFO] Loaded model artifact %s (best epoch %d, val loss %.4f)",
			cfg.Model.Path, params.BestEpoch, params.BestValidationLoss)
	}

	repository := detections.NewRepository(db.DB)
	service := detections.NewService(repository, extractor, params, cfg.Model.Path)

	return &types.Dependencies{
		DB:               db,
		DetectionService: service,
		AudioDecoder:     decoder,
	}, nil
}
