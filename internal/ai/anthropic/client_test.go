package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobpilot/internal/ai"
)

func newMessagesServer(t *testing.T, status int, body string) (*httptest.Server, *[]messagesRequest) {
	t.Helper()

	var requests []messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") == "" {
			t.Error("missing x-api-key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}

		data, _ := io.ReadAll(r.Body)
		var req messagesRequest
		if err := json.Unmarshal(data, &req); err == nil {
			requests = append(requests, req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, &requests
}

func newTestGenerator(t *testing.T, baseURL string) *Generator {
	t.Helper()

	g, err := New(Config{APIKey: "key", BaseURL: baseURL}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGenerateReturnsText(t *testing.T) {
	server, requests := newMessagesServer(t, http.StatusOK, `{
		"content": [
			{"type": "text", "text": "Hej!"},
			{"type": "text", "text": "Med vänlig hälsning"}
		]
	}`)

	g := newTestGenerator(t, server.URL)

	got, err := g.Generate(context.Background(), "skriv ett brev", 800)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hej!\nMed vänlig hälsning" {
		t.Fatalf("got %q", got)
	}

	if len(*requests) != 1 {
		t.Fatalf("expected one request, got %d", len(*requests))
	}
	req := (*requests)[0]
	if req.Model != defaultModel || req.MaxTokens != 800 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
		t.Fatalf("unexpected messages: %+v", req.Messages)
	}
}

func TestGenerateMapsRateLimit(t *testing.T) {
	server, _ := newMessagesServer(t, http.StatusTooManyRequests, `{
		"error": {"type": "rate_limit_error", "message": "quota exceeded"}
	}`)

	g := newTestGenerator(t, server.URL)

	_, err := g.Generate(context.Background(), "prompt", 0)
	if !errors.Is(err, ai.ErrRateLimited) {
		t.Fatalf("expected a rate-limit error, got %v", err)
	}
}

func TestGenerateServerErrorIsPlain(t *testing.T) {
	server, _ := newMessagesServer(t, http.StatusInternalServerError, `{
		"error": {"type": "api_error", "message": "backend"}
	}`)

	g := newTestGenerator(t, server.URL)

	_, err := g.Generate(context.Background(), "prompt", 0)
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ai.ErrRateLimited) {
		t.Fatal("a server error must not look like throttling")
	}
}

func TestGenerateSkipsNonTextBlocks(t *testing.T) {
	server, _ := newMessagesServer(t, http.StatusOK, `{
		"content": [
			{"type": "thinking", "text": "inre monolog"},
			{"type": "text", "text": "Brevet"}
		]
	}`)

	g := newTestGenerator(t, server.URL)

	got, err := g.Generate(context.Background(), "prompt", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Brevet" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	server, _ := newMessagesServer(t, http.StatusOK, `{"content": []}`)

	g := newTestGenerator(t, server.URL)

	if _, err := g.Generate(context.Background(), "prompt", 0); err == nil {
		t.Fatal("expected an error for an empty response")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Fatal("expected an error for a missing api key")
	}
}
