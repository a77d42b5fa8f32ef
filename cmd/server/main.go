package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/roadside-plus/backend/internal/ai"
	"github.com/roadside-plus/backend/internal/config"
	"github.com/roadside-plus/backend/internal/db"
	httpapi "github.com/roadside-plus/backend/internal/http"
	"github.com/roadside-plus/backend/internal/http/handlers"
	"github.com/roadside-plus/backend/internal/metrics"
)

// @title RoadSide+ Backend
// @version 1.0
// @description Dataset export, dataset storage and assistant endpoints for the RoadSide+ admin dashboard
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "roadside-backend").Str("env", cfg.Env).Logger()

	ctx := context.Background()

	var store handlers.DatasetStore
	if cfg.DatabaseURL != "" {
		pg, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate db")
		}
		store = pg
	} else {
		logger.Warn().Msg("DATABASE_URL not set, dataset storage disabled")
	}

	assistant, err := newAssistant(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create assistant")
	}
	service := &ai.Service{Assistant: assistant, Logger: logger}

	router := httpapi.Router(cfg, store, service, metrics.NewCollector(nil), logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}

func newAssistant(cfg config.Config, logger zerolog.Logger) (ai.Assistant, error) {
	if cfg.AssistantBaseURL == "" {
		logger.Info().Msg("using mock assistant")
		return ai.MockAssistant{ModelVersion: "mock-v1"}, nil
	}
	switch cfg.AssistantProvider {
	case "langchain":
		logger.Info().Str("model", cfg.AssistantModel).Msg("using langchain assistant")
		return ai.NewLangchainAssistant(cfg.AssistantBaseURL, cfg.AssistantModel, cfg.AssistantAPIKey, cfg.AssistantMaxTokens)
	default:
		logger.Info().Str("model", cfg.AssistantModel).Msg("using openai-compatible assistant")
		return &ai.OpenAICompatAssistant{
			BaseURL:   cfg.AssistantBaseURL,
			Model:     cfg.AssistantModel,
			APIKey:    cfg.AssistantAPIKey,
			MaxTokens: cfg.AssistantMaxTokens,
			CacheTTL:  cfg.AssistantCacheTTL,
		}, nil
	}
}
