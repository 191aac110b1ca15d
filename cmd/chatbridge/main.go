package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/antoniostano/chatbridge/internal/app"
	"github.com/antoniostano/chatbridge/internal/config"
	"github.com/antoniostano/chatbridge/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	ctx := context.Background()
	built, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("app build failed")
	}

	logger.Info().
		Str("provider", built.Client.Name()).
		Str("model", built.Client.Model()).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("llm client ready")
	if cfg.LLMProvider == "mock" || cfg.LLMFallback == "mock" {
		logger.Warn().
			Str("provider", cfg.LLMProvider).
			Str("fallback", cfg.LLMFallback).
			Msg("mock llm client active: replies are canned, not model output")
	}

	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: built.API.Router(),
	}

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()
	built.Store.StartJanitor(runCtx, cfg.SessionJanitorInterval)

	go func() {
		logger.Info().Str("addr", cfg.BindAddr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info().Msg("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		_ = httpServer.Close()
	}

	logger.Info().Msg("shutdown complete")
}
