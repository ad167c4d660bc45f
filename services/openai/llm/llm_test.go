package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voicerelay/core"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *OpenAIChatService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	config := DefaultConfig()
	config.APIKey = "test-key"
	config.BaseURL = srv.URL + "/v1"
	config.Timeout = 2 * time.Second
	return NewOpenAIChatService(config, nil)
}

func TestCompleteReturnsReplyText(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hi there!"}, "finish_reason": "stop"}]
		}`))
	})

	reply, err := svc.Complete(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply.Text != "Hi there!" {
		t.Fatalf("expected reply text, got %q", reply.Text)
	}
}

func TestCompleteMapsFailureStatus(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "server having a moment", "type": "server_error"}}`))
	})

	_, err := svc.Complete(context.Background(), "Hello")
	var upstream *core.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *core.UpstreamError, got %T: %v", err, err)
	}
	if upstream.Status != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", upstream.Status)
	}
	if upstream.Service != "chat" {
		t.Fatalf("expected chat service tag, got %q", upstream.Service)
	}
}

func TestCompleteMapsTimeout(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})
	svc.config.Timeout = 50 * time.Millisecond

	_, err := svc.Complete(context.Background(), "Hello")
	var timeout *core.UpstreamTimeout
	if !errors.As(err, &timeout) {
		t.Fatalf("expected *core.UpstreamTimeout, got %T: %v", err, err)
	}
	if timeout.Service != "chat" {
		t.Fatalf("expected chat service tag, got %q", timeout.Service)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-1", "object": "chat.completion", "choices": []}`))
	})

	_, err := svc.Complete(context.Background(), "Hello")
	var upstream *core.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *core.UpstreamError, got %T: %v", err, err)
	}
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	config := DefaultConfig()
	svc := NewOpenAIChatService(config, nil)

	if _, err := svc.Complete(context.Background(), "Hello"); err == nil {
		t.Fatal("expected error without API key")
	}
}
