// Package main is the entry point for the brittle-floor demo.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/joho/godotenv"

	"github.com/samdwyer/brittlefloor/internal/audio"
	"github.com/samdwyer/brittlefloor/internal/config"
	"github.com/samdwyer/brittlefloor/internal/game"
	"github.com/samdwyer/brittlefloor/internal/host"
	"github.com/samdwyer/brittlefloor/internal/savefile"
	"github.com/samdwyer/brittlefloor/internal/telemetry"
	"github.com/samdwyer/brittlefloor/internal/ui"
)

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_BRITTLEFLOOR_API_KEY available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	configPath := flag.String("config", os.Getenv("BRITTLEFLOOR_CONFIG"), "YAML config file")
	seed := flag.Int64("seed", 0, "seed for the generated map (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	// The terminal belongs to the game, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()
	stdr.SetVerbosity(cfg.LogVerbosity)
	logger := stdr.New(log.New(logFile, "", log.LstdFlags|log.Lmicroseconds))

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		logger.Error(err, "telemetry setup failed, running without observability")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error(err, "telemetry shutdown")
			}
		}()
	}

	store, err := savefile.OpenStore(cfg.SaveDir, cfg.SlotDB)
	if err != nil {
		log.Fatalf("Failed to open saves: %v", err)
	}
	defer store.Close()

	player, closeAudio := setupAudio(cfg.Audio, logger)
	defer closeAudio()

	screen, err := ui.NewScreen()
	if err != nil {
		log.Fatalf("Failed to initialize screen: %v", err)
	}

	// Create and run game
	g, err := game.New(game.Options{
		Config: cfg,
		Log:    logger,
		Audio:  player,
		Store:  store,
		Screen: screen,
	})
	if err != nil {
		screen.Close()
		log.Fatalf("Failed to initialize game: %v", err)
	}

	runErr := g.Run(ctx)
	g.Close()
	if runErr != nil {
		log.Fatalf("Game error: %v", runErr)
	}
}

// setupAudio returns the cue player: the speaker when it opens, plus the
// log at verbosity 1.
func setupAudio(cfg config.Audio, logger logr.Logger) (host.AudioPlayer, func()) {
	logPlayer := audio.LogPlayer{Log: logger.WithName("audio")}
	if !cfg.Enabled {
		return logPlayer, func() {}
	}

	speaker := audio.NewBeepPlayer(cfg.SampleRate, logger.WithName("audio"))
	if err := speaker.Initialize(); err != nil {
		logger.Error(err, "audio disabled")
		return logPlayer, func() {}
	}
	return audio.Multi(speaker, logPlayer), speaker.Close
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	// Always set endpoint to Honeycomb
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	// Always set headers from our API key - the .env file may have an unexpanded
	// variable reference that doesn't work, so we construct it properly here
	apiKey := os.Getenv("HONEYCOMB_BRITTLEFLOOR_API_KEY")
	dataset := os.Getenv("HONEYCOMB_BRITTLEFLOOR_DATASET")
	if dataset == "" {
		dataset = "brittlefloor" // default dataset name
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
