package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type errClient struct{ name string }

func (c errClient) Name() string  { return c.name }
func (c errClient) Model() string { return c.name }
func (c errClient) Complete(context.Context, string) (Result, error) {
	return Result{}, errors.New("boom")
}

type cancelClient struct{}

func (cancelClient) Name() string  { return "cancel" }
func (cancelClient) Model() string { return "cancel" }
func (cancelClient) Complete(context.Context, string) (Result, error) {
	return Result{}, context.Canceled
}

type countingClient struct {
	text  string
	calls int
}

func (c *countingClient) Name() string  { return "counting" }
func (c *countingClient) Model() string { return "counting" }
func (c *countingClient) Complete(context.Context, string) (Result, error) {
	c.calls++
	return TextResult(c.text), nil
}

func TestFallbackClientUsesFallback(t *testing.T) {
	fb := &countingClient{text: "fallback"}
	c := NewFallbackClient(errClient{name: "primary"}, fb)

	res, err := c.Complete(context.Background(), "x")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res.Reply() != "fallback" || fb.calls != 1 {
		t.Fatalf("reply = %q, calls = %d", res.Reply(), fb.calls)
	}
	if c.Name() != "primary" {
		t.Fatalf("Name() = %q", c.Name())
	}
}

func TestFallbackClientSkipsFallbackOnCanceledContext(t *testing.T) {
	fb := &countingClient{text: "fallback"}
	c := NewFallbackClient(cancelClient{}, fb)

	_, err := c.Complete(context.Background(), "x")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if fb.calls != 0 {
		t.Fatalf("fallback should not be called, calls = %d", fb.calls)
	}
}

func TestFallbackClientReportsBothErrors(t *testing.T) {
	c := NewFallbackClient(errClient{name: "a"}, errClient{name: "b"})
	_, err := c.Complete(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "primary a") || !strings.Contains(err.Error(), "fallback b") {
		t.Fatalf("error = %v", err)
	}
}

func TestNewClientWrapsFallback(t *testing.T) {
	c, err := NewClient(Config{Provider: "http", HTTPURL: "http://x", Fallback: "mock"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	fc, ok := c.(*FallbackClient)
	if !ok {
		t.Fatalf("client = %T, want *FallbackClient", c)
	}
	if fc.Primary().Name() != "http" || fc.Secondary().Name() != "mock" {
		t.Fatalf("primary/secondary = %s/%s", fc.Primary().Name(), fc.Secondary().Name())
	}

	same, err := NewClient(Config{Provider: "mock", Fallback: "mock"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, ok := same.(*FallbackClient); ok {
		t.Fatalf("fallback to the same provider should not wrap")
	}

	if _, err := NewClient(Config{Provider: "mock", Fallback: "groq"}); err == nil {
		t.Fatalf("fallback without credentials should fail")
	}
}
