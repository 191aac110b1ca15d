package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/antoniostano/chatbridge/internal/chat"
	"github.com/antoniostano/chatbridge/internal/config"
	"github.com/antoniostano/chatbridge/internal/httpapi"
	"github.com/antoniostano/chatbridge/internal/llm"
	"github.com/antoniostano/chatbridge/internal/observability"
	"github.com/antoniostano/chatbridge/internal/prompt"
	"github.com/antoniostano/chatbridge/internal/session"
)

type BuildResult struct {
	Config  config.Config
	API     *httpapi.Server
	Chat    *chat.Service
	Store   *session.MemoryStore
	Client  llm.Client
	Metrics *observability.Metrics
}

func Build(_ context.Context, cfg config.Config, logger zerolog.Logger) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	tmpl, err := prompt.Load(cfg.PromptTemplateFile)
	if err != nil {
		return nil, fmt.Errorf("prompt template init failed: %w", err)
	}

	client, err := llm.NewClient(llm.Config{
		Provider:           cfg.LLMProvider,
		Fallback:           cfg.LLMFallback,
		Timeout:            cfg.LLMTimeout,
		MaxRetries:         cfg.LLMMaxRetries,
		GroqAPIKey:         cfg.GroqAPIKey,
		GroqBaseURL:        cfg.GroqBaseURL,
		GroqModel:          cfg.GroqModel,
		OpenAIAPIKey:       cfg.OpenAIAPIKey,
		OpenAIModel:        cfg.OpenAIModel,
		AnthropicAPIKey:    cfg.AnthropicAPIKey,
		AnthropicModel:     cfg.AnthropicModel,
		AnthropicMaxTokens: cfg.AnthropicMaxTokens,
		HTTPURL:            cfg.LLMHTTPURL,
	})
	if err != nil {
		return nil, fmt.Errorf("llm client init failed: %w", err)
	}

	store := session.NewMemoryStore(
		session.WithWindow(session.NewWindow(cfg.HistoryMaxTurns, cfg.HistoryMaxChars)),
		session.WithIdleTTL(cfg.SessionIdleTTL),
	)
	store.SetExpireHook(func(id string) {
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(store.Len()))
		logger.Debug().Str("session_id", id).Msg("session expired")
	})

	svc := chat.NewService(store, tmpl, client,
		chat.WithMetrics(metrics),
		chat.WithLogger(logger.With().Str("component", "chat").Logger()),
	)

	api := httpapi.New(cfg, svc, metrics, logger.With().Str("component", "http").Logger())

	return &BuildResult{
		Config:  cfg,
		API:     api,
		Chat:    svc,
		Store:   store,
		Client:  client,
		Metrics: metrics,
	}, nil
}
