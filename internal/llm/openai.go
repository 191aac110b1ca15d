package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultGroqModel   = "llama3-70b-8192"
	defaultOpenAIModel = "gpt-4o-mini"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
// Groq is served through the same client with its own base URL.
type OpenAIClient struct {
	client   openai.Client
	provider string
	model    string
}

// NewGroqClient targets Groq's OpenAI-compatible API.
func NewGroqClient(apiKey, baseURL, model string, timeout time.Duration, maxRetries int) *OpenAIClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultGroqBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = defaultGroqModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	}
	opts = append(opts, requestOptions(timeout, maxRetries)...)
	return &OpenAIClient{
		client:   openai.NewClient(opts...),
		provider: "groq",
		model:    model,
	}
}

// NewOpenAIClient targets the OpenAI API.
func NewOpenAIClient(apiKey, model string, timeout time.Duration, maxRetries int) *OpenAIClient {
	if strings.TrimSpace(model) == "" {
		model = defaultOpenAIModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	opts = append(opts, requestOptions(timeout, maxRetries)...)
	return &OpenAIClient{
		client:   openai.NewClient(opts...),
		provider: "openai",
		model:    model,
	}
}

func requestOptions(timeout time.Duration, maxRetries int) []option.RequestOption {
	var opts []option.RequestOption
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	if maxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(maxRetries))
	}
	return opts
}

func (c *OpenAIClient) Name() string  { return c.provider }
func (c *OpenAIClient) Model() string { return c.model }

// Complete sends the prompt as a single user message at temperature 0.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (Result, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("%s chat completion: %w", c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("%s chat completion: no choices returned", c.provider)
	}

	msg := resp.Choices[0].Message
	return MessageResult(Message{
		Role:    string(msg.Role),
		Content: msg.Content,
	}, msg.RawJSON()), nil
}
