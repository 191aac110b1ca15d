package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAllowedOrigins are the browser origins of the hosted frontend and the
// local Vite dev server.
var DefaultAllowedOrigins = []string{
	"https://chatbot-80qm.onrender.com",
	"http://localhost:5173",
}

// Config contains all runtime settings for the chat backend.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	LogLevel  string
	LogPretty bool

	AllowedOrigins []string

	LLMProvider   string
	LLMFallback   string
	LLMTimeout    time.Duration
	LLMMaxRetries int

	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	OpenAIAPIKey string
	OpenAIModel  string

	AnthropicAPIKey    string
	AnthropicModel     string
	AnthropicMaxTokens int

	LLMHTTPURL string

	PromptTemplateFile string

	HistoryMaxTurns int
	HistoryMaxChars int

	SessionIdleTTL         time.Duration
	SessionJanitorInterval time.Duration
}

// Load reads an optional .env file, then environment variables, and applies safe defaults.
func Load() (Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := Config{
		BindAddr:           bindAddr(),
		MetricsNamespace:   envOrDefault("APP_METRICS_NAMESPACE", "chatbridge"),
		LogLevel:           strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
		AllowedOrigins:     listFromEnv("CORS_ALLOWED_ORIGINS", DefaultAllowedOrigins),
		LLMProvider:        strings.ToLower(envOrDefault("LLM_PROVIDER", "auto")),
		LLMFallback:        strings.ToLower(stringsTrimSpace("LLM_FALLBACK_PROVIDER")),
		GroqAPIKey:         stringsTrimSpace("GROQ_API_KEY"),
		GroqBaseURL:        envOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:          envOrDefault("GROQ_MODEL", "llama3-70b-8192"),
		OpenAIAPIKey:       stringsTrimSpace("OPENAI_API_KEY"),
		OpenAIModel:        envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		AnthropicAPIKey:    stringsTrimSpace("ANTHROPIC_API_KEY"),
		AnthropicModel:     envOrDefault("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		AnthropicMaxTokens: 1024,
		LLMMaxRetries:      2,
		LLMHTTPURL:         stringsTrimSpace("LLM_HTTP_URL"),
		PromptTemplateFile: stringsTrimSpace("PROMPT_TEMPLATE_FILE"),

		ShutdownTimeout:        15 * time.Second,
		SessionJanitorInterval: 30 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.LLMTimeout, err = durationFromEnv("LLM_TIMEOUT", cfg.LLMTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionIdleTTL, err = durationFromEnv("SESSION_IDLE_TTL", cfg.SessionIdleTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionJanitorInterval, err = durationFromEnv("SESSION_JANITOR_INTERVAL", cfg.SessionJanitorInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryMaxTurns, err = intFromEnv("HISTORY_MAX_TURNS", cfg.HistoryMaxTurns)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryMaxChars, err = intFromEnv("HISTORY_MAX_CHARS", cfg.HistoryMaxChars)
	if err != nil {
		return Config{}, err
	}
	cfg.LLMMaxRetries, err = intFromEnv("LLM_MAX_RETRIES", cfg.LLMMaxRetries)
	if err != nil {
		return Config{}, err
	}
	cfg.AnthropicMaxTokens, err = intFromEnv("ANTHROPIC_MAX_TOKENS", cfg.AnthropicMaxTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.LogPretty, err = boolFromEnv("LOG_PRETTY", cfg.LogPretty)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	// An empty list would make the CORS layer allow every origin.
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	if c.HistoryMaxTurns < 0 {
		return fmt.Errorf("HISTORY_MAX_TURNS must be >= 0")
	}
	if c.HistoryMaxChars < 0 {
		return fmt.Errorf("HISTORY_MAX_CHARS must be >= 0")
	}
	if c.LLMTimeout < 0 {
		return fmt.Errorf("LLM_TIMEOUT must be >= 0")
	}
	if c.LLMMaxRetries < 0 {
		return fmt.Errorf("LLM_MAX_RETRIES must be >= 0")
	}
	if c.SessionIdleTTL < 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be >= 0")
	}
	if c.SessionIdleTTL > 0 && c.SessionJanitorInterval <= 0 {
		return fmt.Errorf("SESSION_JANITOR_INTERVAL must be positive when SESSION_IDLE_TTL is set")
	}
	if c.AnthropicMaxTokens <= 0 {
		return fmt.Errorf("ANTHROPIC_MAX_TOKENS must be positive")
	}

	if err := c.validateProvider("LLM_PROVIDER", c.LLMProvider); err != nil {
		return err
	}
	if c.LLMFallback != "" {
		if c.LLMFallback == "auto" {
			return fmt.Errorf("LLM_FALLBACK_PROVIDER must name a concrete provider")
		}
		if err := c.validateProvider("LLM_FALLBACK_PROVIDER", c.LLMFallback); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) validateProvider(key, provider string) error {
	switch provider {
	case "mock":
	case "auto":
		if c.GroqAPIKey == "" && c.AnthropicAPIKey == "" && c.OpenAIAPIKey == "" && c.LLMHTTPURL == "" {
			return fmt.Errorf("%s=auto requires GROQ_API_KEY, ANTHROPIC_API_KEY, OPENAI_API_KEY or LLM_HTTP_URL (use mock to run without a model)", key)
		}
	case "groq":
		if c.GroqAPIKey == "" {
			return fmt.Errorf("%s=groq requires GROQ_API_KEY", key)
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%s=openai requires OPENAI_API_KEY", key)
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("%s=anthropic requires ANTHROPIC_API_KEY", key)
		}
	case "http":
		if c.LLMHTTPURL == "" {
			return fmt.Errorf("%s=http requires LLM_HTTP_URL", key)
		}
	default:
		return fmt.Errorf("invalid %s %q (expected auto|groq|openai|anthropic|http|mock)", key, provider)
	}
	return nil
}

// bindAddr honors APP_BIND_ADDR first, then the PORT convention of most PaaS hosts.
func bindAddr() string {
	if v := stringsTrimSpace("APP_BIND_ADDR"); v != "" {
		return v
	}
	return ":" + envOrDefault("PORT", "8080")
}

func envOrDefault(key, fallback string) string {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func listFromEnv(key string, fallback []string) []string {
	v := stringsTrimSpace(key)
	if v == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
