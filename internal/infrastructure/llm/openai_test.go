package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ArticleTutor/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.OpenAIConfig{
		BaseURL: server.URL,
		Model:   "test-model",
		APIKey:  "test-key",
	}, nil)
	client.retry = fastPolicy()
	client.httpClient = server.Client()

	return client, server
}

func completionReply(content string) string {
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	raw, _ := json.Marshal(reply)
	return string(raw)
}

func TestAnalyzeArticleParsesReply(t *testing.T) {
	t.Parallel()

	var captured chatRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_, _ = w.Write([]byte(completionReply(`{"title":"Go Routines","reading_time":7}`)))
	})

	result, err := client.AnalyzeArticle(context.Background(), "Go Routines", "body text")
	if err != nil {
		t.Fatalf("AnalyzeArticle error: %v", err)
	}

	if result["title"] != "Go Routines" {
		t.Fatalf("unexpected result: %v", result)
	}
	if captured.ResponseFormat.Type != "json_object" {
		t.Fatalf("expected json_object response format, got %q", captured.ResponseFormat.Type)
	}
	if captured.MaxTokens != analysisMaxTokens {
		t.Fatalf("unexpected max_tokens: %d", captured.MaxTokens)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", captured.Messages)
	}
	if !strings.Contains(captured.Messages[1].Content, "Go Routines") {
		t.Fatalf("user message missing title: %q", captured.Messages[1].Content)
	}
}

func TestEvaluateExplanationEmbedsInputs(t *testing.T) {
	t.Parallel()

	var captured chatRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_, _ = w.Write([]byte(completionReply(`{"understanding_score":80}`)))
	})

	result, err := client.EvaluateExplanation(context.Background(), "my explanation", "Recursion", "a function calling itself")
	if err != nil {
		t.Fatalf("EvaluateExplanation error: %v", err)
	}

	if result["understanding_score"] != float64(80) {
		t.Fatalf("unexpected result: %v", result)
	}
	user := captured.Messages[1].Content
	for _, want := range []string{"Recursion", "a function calling itself", "my explanation"} {
		if !strings.Contains(user, want) {
			t.Fatalf("user message missing %q: %q", want, user)
		}
	}
	if captured.MaxTokens != feedbackMaxTokens {
		t.Fatalf("unexpected max_tokens: %d", captured.MaxTokens)
	}
}

func TestGenerateJSONRetriesRateLimits(t *testing.T) {
	t.Parallel()

	requests := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit reached"}`))
			return
		}
		_, _ = w.Write([]byte(completionReply(`{"title":"ok"}`)))
	})

	result, err := client.AnalyzeArticle(context.Background(), "t", "c")
	if err != nil {
		t.Fatalf("expected recovery after 429s, got %v", err)
	}
	if requests != 3 {
		t.Fatalf("expected 3 requests, got %d", requests)
	}
	if result["title"] != "ok" {
		t.Fatalf("unexpected result: %v", result)
	}
}

func TestGenerateJSONFailsFastOnAuthError(t *testing.T) {
	t.Parallel()

	requests := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	})

	_, err := client.AnalyzeArticle(context.Background(), "t", "c")
	if err == nil {
		t.Fatal("expected error")
	}
	if requests != 1 {
		t.Fatalf("auth errors must not be retried, got %d requests", requests)
	}
}

func TestGenerateJSONRejectsMalformedReply(t *testing.T) {
	t.Parallel()

	requests := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(completionReply("not json at all")))
	})

	_, err := client.AnalyzeArticle(context.Background(), "t", "c")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if requests != 1 {
		t.Fatalf("parse failures must not be retried, got %d requests", requests)
	}
	if !strings.Contains(err.Error(), "not a JSON object") {
		t.Fatalf("unexpected error: %v", err)
	}
}
