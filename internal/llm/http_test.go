package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHTTPClientExtractsTextField(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req httpCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Prompt
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reply":"pong","meta":{"ok":true}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, 0)
	res, err := c.Complete(context.Background(), "ping")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if gotPrompt != "ping" {
		t.Fatalf("server saw prompt %q", gotPrompt)
	}
	if res.Kind != KindText || res.Reply() != "pong" {
		t.Fatalf("result = %+v", res)
	}
}

func TestHTTPClientFallsBackToRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("  just text \n"))
	}))
	defer srv.Close()

	res, err := NewHTTPClient(srv.URL, time.Second, 0).Complete(context.Background(), "x")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res.Reply() != "just text" {
		t.Fatalf("Reply() = %q", res.Reply())
	}
}

func TestHTTPClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad prompt", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, time.Second, 3).Complete(context.Background(), "x")
	if err == nil {
		t.Fatalf("expected error")
	}
	code, ok := StatusCode(err)
	if !ok || code != http.StatusBadRequest {
		t.Fatalf("StatusCode() = %d, %v", code, ok)
	}
}

func TestHTTPClientRetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"text":"finally"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, 2)
	var delays []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	res, err := c.Complete(context.Background(), "x")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res.Reply() != "finally" {
		t.Fatalf("Reply() = %q", res.Reply())
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
	if len(delays) != 2 || delays[0] != retryBaseDelay || delays[1] != 2*retryBaseDelay {
		t.Fatalf("delays = %v", delays)
	}
}

func TestHTTPClientGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, 1)
	c.sleep = func(context.Context, time.Duration) error { return nil }

	_, err := c.Complete(context.Background(), "x")
	if code, _ := StatusCode(err); code != http.StatusTooManyRequests {
		t.Fatalf("err = %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}
