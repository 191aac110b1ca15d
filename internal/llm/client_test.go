package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewClientAutoRequiresCredentials(t *testing.T) {
	for _, provider := range []string{"", "auto"} {
		c, err := NewClient(Config{Provider: provider})
		if !errors.Is(err, errNoCredentials) {
			t.Fatalf("NewClient(%q) error = %v, want errNoCredentials", provider, err)
		}
		if c != nil {
			t.Fatalf("NewClient(%q) returned %s client without credentials", provider, c.Name())
		}
	}

	if _, err := NewClient(Config{Provider: "http", HTTPURL: "http://x", Fallback: "auto"}); !errors.Is(err, errNoCredentials) {
		t.Fatalf("auto fallback without credentials error = %v", err)
	}
}

func TestNewClientAutoPrefersGroq(t *testing.T) {
	c, err := NewClient(Config{
		GroqAPIKey:      "gsk",
		AnthropicAPIKey: "sk-ant",
		HTTPURL:         "http://example.test",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.Name() != "groq" || c.Model() != defaultGroqModel {
		t.Fatalf("got %s/%s, want groq/%s", c.Name(), c.Model(), defaultGroqModel)
	}
}

func TestNewClientAutoOrder(t *testing.T) {
	cases := []struct {
		cfg  Config
		want string
	}{
		{Config{AnthropicAPIKey: "k", OpenAIAPIKey: "k", HTTPURL: "http://x"}, "anthropic"},
		{Config{OpenAIAPIKey: "k", HTTPURL: "http://x"}, "openai"},
		{Config{HTTPURL: "http://x"}, "http"},
	}
	for _, tc := range cases {
		c, err := NewClient(tc.cfg)
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		if c.Name() != tc.want {
			t.Fatalf("Name() = %q, want %q", c.Name(), tc.want)
		}
	}
}

func TestNewClientExplicitModes(t *testing.T) {
	if _, err := NewClient(Config{Provider: "groq"}); err == nil {
		t.Fatalf("groq without key should fail")
	}
	if _, err := NewClient(Config{Provider: "http"}); err == nil {
		t.Fatalf("http without url should fail")
	}
	if _, err := NewClient(Config{Provider: "ollama"}); err == nil {
		t.Fatalf("unknown provider should fail")
	}

	c, err := NewClient(Config{Provider: " MOCK "})
	if err != nil {
		t.Fatalf("NewClient(mock) error = %v", err)
	}
	if c.Name() != "mock" {
		t.Fatalf("Name() = %q", c.Name())
	}
	res, err := c.Complete(context.Background(), "\nQuestion:\nhello\n\nAnswer:\n")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got := res.Reply(); got != "I heard you: hello" {
		t.Fatalf("Reply() = %q", got)
	}
}

func TestMockClientHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMockClient().Complete(ctx, "x"); err == nil {
		t.Fatalf("expected error on canceled context")
	}
}

func TestMockReplyWithoutTemplate(t *testing.T) {
	if got := buildMockReply("  plain prompt "); got != "I heard you: plain prompt" {
		t.Fatalf("buildMockReply() = %q", got)
	}
	if got := buildMockReply(""); !strings.HasSuffix(got, "nothing") {
		t.Fatalf("buildMockReply(empty) = %q", got)
	}
}

func TestResultReply(t *testing.T) {
	cases := []struct {
		name string
		res  Result
		want string
	}{
		{"text", TextResult("plain"), "plain"},
		{"message", MessageResult(Message{Role: "assistant", Content: "hi"}, `{"content":"hi"}`), "hi"},
		{"message without content", MessageResult(Message{Role: "assistant"}, `{"role":"assistant"}`), `{"role":"assistant"}`},
		{"zero value", Result{}, ""},
	}
	for _, tc := range cases {
		if got := tc.res.Reply(); got != tc.want {
			t.Fatalf("%s: Reply() = %q, want %q", tc.name, got, tc.want)
		}
	}
}
