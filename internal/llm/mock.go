package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockClient provides deterministic local replies when no provider is configured.
type MockClient struct{}

func NewMockClient() *MockClient { return &MockClient{} }

func (c *MockClient) Name() string  { return "mock" }
func (c *MockClient) Model() string { return "mock" }

func (c *MockClient) Complete(ctx context.Context, prompt string) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}
	return TextResult(buildMockReply(prompt)), nil
}

func buildMockReply(prompt string) string {
	q := strings.TrimSpace(questionOf(prompt))
	if q == "" {
		q = "nothing"
	}
	return fmt.Sprintf("I heard you: %s", q)
}

// questionOf pulls the question slot back out of a prompt built from the
// default template. Other prompts are returned whole.
func questionOf(prompt string) string {
	const start, end = "Question:\n", "\n\nAnswer:"
	i := strings.LastIndex(prompt, start)
	if i < 0 {
		return prompt
	}
	rest := prompt[i+len(start):]
	if j := strings.LastIndex(rest, end); j >= 0 {
		return rest[:j]
	}
	return rest
}
