package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"golang.org/x/time/rate"
)

// chatServer returns a test server that answers chat completions with reply.
// It records the last request body.
func chatServer(t *testing.T, status int, reply string, last *atomic.Value) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && last != nil {
			last.Store(body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
			return
		}
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-3.5-turbo",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": reply}, "finish_reason": "stop"},
			},
			"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return New("sk-test", WithBaseURL(srv.URL+"/v1"), WithRateLimit(rate.Inf, 1))
}

// TestClientComplete tests a successful completion.
func TestClientComplete(t *testing.T) {
	t.Parallel()

	var last atomic.Value
	srv := chatServer(t, http.StatusOK, "  Immediately \n", &last)
	c := newTestClient(srv)

	got, err := c.Complete(context.Background(), TextPrompt("Intern", "resume", "When can you start?"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Immediately" {
		t.Errorf("expected trimmed reply, got %q", got)
	}

	body, ok := last.Load().(map[string]any)
	if !ok {
		t.Fatal("expected request body to be recorded")
	}
	if body["model"] != "gpt-3.5-turbo" {
		t.Errorf("expected default model, got %v", body["model"])
	}
	if body["max_tokens"] != float64(TextMaxTokens) {
		t.Errorf("expected max_tokens %d, got %v", TextMaxTokens, body["max_tokens"])
	}
}

// TestClientCompleteError tests API error propagation.
func TestClientCompleteError(t *testing.T) {
	t.Parallel()

	srv := chatServer(t, http.StatusUnauthorized, "", nil)
	c := newTestClient(srv)

	if _, err := c.Complete(context.Background(), Prompt{Text: "x"}); err == nil {
		t.Error("expected error for unauthorized response")
	}
}

// TestClientVerify tests the health check.
func TestClientVerify(t *testing.T) {
	t.Parallel()

	t.Run("ready reply", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(chatServer(t, http.StatusOK, "Ready!", nil))
		reply, err := c.Verify(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reply != "Ready!" {
			t.Errorf("expected Ready!, got %q", reply)
		}
	})

	t.Run("unexpected reply", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(chatServer(t, http.StatusOK, "hello", nil))
		reply, err := c.Verify(context.Background())
		if !errors.Is(err, ErrNotReady) {
			t.Errorf("expected ErrNotReady, got %v", err)
		}
		if reply != "hello" {
			t.Errorf("expected reply to be returned, got %q", reply)
		}
	})
}

// TestClientCanceledContext tests that the limiter honors cancellation.
func TestClientCanceledContext(t *testing.T) {
	t.Parallel()

	c := New("sk-test", WithBaseURL("http://127.0.0.1:1/v1"), WithRateLimit(rate.Every(1<<62), 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Complete(ctx, Prompt{Text: "x"}); err == nil {
		t.Error("expected error for canceled context")
	}
}

// TestClientOptions tests option handling.
func TestClientOptions(t *testing.T) {
	t.Parallel()

	c := New("sk", WithModel("gpt-4o-mini"), WithModel(""))
	if c.Model() != "gpt-4o-mini" {
		t.Errorf("expected gpt-4o-mini, got %s", c.Model())
	}
	if c.timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", c.timeout)
	}
}
