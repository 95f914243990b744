package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hughesschools/content-service/internal/calendar"
	"github.com/hughesschools/content-service/internal/cms"
	"github.com/hughesschools/content-service/internal/config"
	"github.com/hughesschools/content-service/internal/health"
	"github.com/hughesschools/content-service/internal/metrics"
	"github.com/hughesschools/content-service/internal/server"
)

func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	if os.Getenv("ENVIRONMENT") == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Logger = logger

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err == nil {
		zerolog.SetGlobalLevel(level)
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Int("http_port", cfg.HTTPPort).
		Str("cms_base_url", cfg.CMSBaseURL).
		Int("week_start", cfg.WeekStart).
		Msg("starting content service")

	// Category palette (defaults plus optional override file)
	palette, err := calendar.LoadPalette(cfg.PaletteFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.PaletteFile).Msg("failed to load palette")
	}

	m := metrics.New()

	// Content store client
	store := cms.NewClient(cms.Config{
		BaseURL: cfg.CMSBaseURL,
		Token:   cfg.CMSToken,
		Timeout: cfg.CMSTimeout,
	}, logger)
	store.SetMetrics(m)

	// Health checker
	checker := health.NewChecker(logger)
	checker.Register("cms", func(ctx context.Context) health.Status {
		if err := store.Ping(ctx); err != nil {
			return health.StatusDown
		}
		return health.StatusOK
	})

	handlers := server.NewHandlers(store, palette, checker, m, cfg, logger)
	srv := server.NewServer(server.ServerConfig{
		ListenAddr:  fmt.Sprintf(":%d", cfg.HTTPPort),
		CORSOrigins: cfg.CORSOrigins,
	}, handlers, m, logger)

	// Graceful shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("server failed")
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		if err := srv.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn().Msg("shutdown timed out")
	}

	logger.Info().Msg("content service stopped")
}
