// Package llm turns a fully formatted prompt into a model completion through
// one of several hosted providers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Client completes prompts against a model.
type Client interface {
	Complete(ctx context.Context, prompt string) (Result, error)
	// Name is the provider name used in logs and metric labels.
	Name() string
	// Model identifies the model that answers.
	Model() string
}

// Config controls client construction.
type Config struct {
	Provider   string
	Fallback   string
	Timeout    time.Duration
	MaxRetries int

	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	OpenAIAPIKey string
	OpenAIModel  string

	AnthropicAPIKey    string
	AnthropicModel     string
	AnthropicMaxTokens int

	HTTPURL string
}

// NewClient builds the client selected by cfg.Provider, wrapped in a
// FallbackClient when cfg.Fallback names a different provider.
func NewClient(cfg Config) (Client, error) {
	primary, err := newProviderClient(cfg, cfg.Provider)
	if err != nil {
		return nil, err
	}
	fb := strings.ToLower(strings.TrimSpace(cfg.Fallback))
	if fb == "" || fb == primary.Name() {
		return primary, nil
	}
	secondary, err := newProviderClient(cfg, fb)
	if err != nil {
		return nil, fmt.Errorf("fallback: %w", err)
	}
	return NewFallbackClient(primary, secondary), nil
}

func newProviderClient(cfg Config, provider string) (Client, error) {
	mode := strings.ToLower(strings.TrimSpace(provider))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		return newAutoClient(cfg)
	case "groq":
		if strings.TrimSpace(cfg.GroqAPIKey) == "" {
			return nil, errors.New("groq api key is required for groq mode")
		}
		return NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel, cfg.Timeout, cfg.MaxRetries), nil
	case "openai":
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			return nil, errors.New("openai api key is required for openai mode")
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.Timeout, cfg.MaxRetries), nil
	case "anthropic":
		if strings.TrimSpace(cfg.AnthropicAPIKey) == "" {
			return nil, errors.New("anthropic api key is required for anthropic mode")
		}
		return NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicMaxTokens, cfg.Timeout, cfg.MaxRetries), nil
	case "http":
		if strings.TrimSpace(cfg.HTTPURL) == "" {
			return nil, errors.New("llm HTTP url is required for http mode")
		}
		return NewHTTPClient(cfg.HTTPURL, cfg.Timeout, cfg.MaxRetries), nil
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", provider)
	}
}

// errNoCredentials means auto mode found no configured provider. The mock is
// never chosen implicitly.
var errNoCredentials = errors.New("auto mode needs GROQ_API_KEY, ANTHROPIC_API_KEY, OPENAI_API_KEY or LLM_HTTP_URL; set LLM_PROVIDER=mock to run without a model")

// newAutoClient picks the first provider that has credentials.
func newAutoClient(cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.GroqAPIKey) != "" {
		return NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel, cfg.Timeout, cfg.MaxRetries), nil
	}
	if strings.TrimSpace(cfg.AnthropicAPIKey) != "" {
		return NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicMaxTokens, cfg.Timeout, cfg.MaxRetries), nil
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.Timeout, cfg.MaxRetries), nil
	}
	if strings.TrimSpace(cfg.HTTPURL) != "" {
		return NewHTTPClient(cfg.HTTPURL, cfg.Timeout, cfg.MaxRetries), nil
	}
	return nil, errNoCredentials
}
