package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/antoniostano/chatbridge/internal/reliability"
)

const (
	retryBaseDelay = 250 * time.Millisecond
	retryMaxDelay  = 4 * time.Second
)

// HTTPStatusError reports a non-2xx answer from an HTTP completion endpoint.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("llm http status %d: %s", e.StatusCode, e.Body)
}

// HTTPClient forwards prompts to a plain JSON completion endpoint.
type HTTPClient struct {
	url        string
	client     *http.Client
	maxRetries int
	sleep      func(context.Context, time.Duration) error
}

// NewHTTPClient builds a client for url. A zero timeout leaves requests
// bounded only by the caller's context.
func NewHTTPClient(url string, timeout time.Duration, maxRetries int) *HTTPClient {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &HTTPClient{
		url:        strings.TrimSpace(url),
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		sleep:      sleepCtx,
	}
}

func (c *HTTPClient) Name() string  { return "http" }
func (c *HTTPClient) Model() string { return c.url }

type httpCompletionRequest struct {
	Prompt string `json:"prompt"`
}

// Complete posts the prompt, retrying retryable statuses and transport
// failures up to maxRetries times.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (Result, error) {
	payload, err := json.Marshal(httpCompletionRequest{Prompt: prompt})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		res, err := c.post(ctx, payload)
		if err == nil || attempt >= c.maxRetries || !retryable(ctx, err) {
			return res, err
		}
		if err := c.sleep(ctx, reliability.ExponentialBackoff(attempt, retryBaseDelay, retryMaxDelay)); err != nil {
			return Result{}, err
		}
	}
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return reliability.IsRetryableHTTPStatus(statusErr.StatusCode)
	}
	return true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *HTTPClient) post(ctx context.Context, payload []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return Result{}, &HTTPStatusError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return TextResult(strings.TrimSpace(string(body))), nil
	}
	if text, ok := extractText(obj); ok {
		return TextResult(text), nil
	}
	return TextResult(strings.TrimSpace(string(body))), nil
}

func extractText(obj map[string]any) (string, bool) {
	for _, k := range []string{"text", "reply", "output", "content", "message"} {
		if v, ok := obj[k]; ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}
