package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ArticleTutor/internal/config"
	"ArticleTutor/internal/ports"
)

const (
	analysisMaxTokens = 4096
	feedbackMaxTokens = 2048
)

// Client implements ports.Analyzer against an OpenAI-compatible chat
// completions endpoint. Both operations request a single JSON object reply;
// a reply that is not valid JSON is a fatal error, never retried.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	retry      RetryPolicy
	logger     *slog.Logger
}

var _ ports.Analyzer = (*Client)(nil)

// NewClient builds a client from configuration. The retry policy defaults
// to the provider back-off contract.
func NewClient(cfg config.OpenAIConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		retry:      DefaultRetryPolicy(),
		logger:     logger,
	}
}

// AnalyzeArticle asks the model for structured learning materials built from
// the extracted article text.
func (c *Client) AnalyzeArticle(ctx context.Context, title, content string) (map[string]any, error) {
	user := fmt.Sprintf("Analyze this article titled '%s':\n\n%s", title, content)
	return c.generateJSON(ctx, analysisSystemPrompt, user, analysisMaxTokens)
}

// EvaluateExplanation asks the model to score a user's explanation of a
// concept against its original description.
func (c *Client) EvaluateExplanation(ctx context.Context, explanation, conceptName, originalDescription string) (map[string]any, error) {
	user := fmt.Sprintf(
		"The user is trying to explain the concept %q.\n\nOriginal concept description: %s\n\nUser's explanation: %s\n\nEvaluate their understanding and provide feedback.",
		conceptName, originalDescription, explanation)
	return c.generateJSON(ctx, feedbackSystemPrompt, user, feedbackMaxTokens)
}

func (c *Client) generateJSON(ctx context.Context, system, user string, maxTokens int) (map[string]any, error) {
	var result map[string]any

	attempt := 0
	err := c.retry.Do(ctx, IsRateLimitError, func() error {
		attempt++
		if attempt > 1 && c.logger != nil {
			c.logger.Warn("retrying model call", "attempt", attempt)
		}

		text, err := c.complete(ctx, system, user, maxTokens)
		if err != nil {
			return err
		}

		var parsed map[string]any
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return fmt.Errorf("model reply is not a JSON object: %w", err)
		}
		result = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	MaxTokens      int            `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete performs a single chat-completions round trip and returns the
// raw reply text.
func (c *Client) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
		MaxTokens:      maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &providerError{
			status: resp.StatusCode,
			body:   strings.TrimSpace(string(raw)),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// providerError keeps the HTTP status visible so the rate-limit classifier
// can match it directly as well as through the message text.
type providerError struct {
	status int
	body   string
}

func (e *providerError) Error() string {
	return fmt.Sprintf("model provider returned %d: %s", e.status, e.body)
}

func (e *providerError) HTTPStatusCode() int {
	return e.status
}
