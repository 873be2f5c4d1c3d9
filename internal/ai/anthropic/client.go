// Package anthropic implements the text-generation capability on the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jobpilot/internal/ai"
	"jobpilot/internal/logger"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	providerName = "anthropic"
	defaultModel = "claude-sonnet-4-20250514"

	defaultBaseURL = "https://api.anthropic.com"
	messagesPath   = "/v1/messages"
	apiVersion     = "2023-06-01"

	requestTimeout = 60 * time.Second
)

// Generator calls the Anthropic Messages API behind the ai.Generator contract.
type Generator struct {
	client *resty.Client
	model  string
	logger *zap.Logger
}

// Config holds provider settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// New creates a Generator for the Anthropic API.
func New(cfg Config, log *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("Content-Type", "application/json")

	return &Generator{
		client: client,
		model:  model,
		logger: logger.With(log, logger.ProviderFields(providerName, model)...),
	}, nil
}

func (g *Generator) Name() string { return providerName }

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt as a single user message and returns the text of
// the response.
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("anthropic generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	if maxTokens <= 0 {
		maxTokens = 1024
	}

	g.logger.Debug("anthropic messages request",
		zap.Int("prompt_length", len(prompt)),
		zap.Int("max_tokens", maxTokens),
	)

	var out messagesResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(messagesRequest{
			Model:     g.model,
			MaxTokens: maxTokens,
			Messages:  []message{{Role: "user", Content: prompt}},
		}).
		SetResult(&out).
		SetError(&out).
		Post(messagesPath)
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		return "", &ai.RateLimitError{Provider: providerName, Cause: apiError(&out, resp.StatusCode())}
	}
	if resp.IsError() {
		return "", apiError(&out, resp.StatusCode())
	}

	var builder strings.Builder
	for _, block := range out.Content {
		if block.Type != "" && block.Type != "text" {
			continue
		}
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("anthropic api returned empty response")
	}

	return output, nil
}

func apiError(out *messagesResponse, status int) error {
	if out != nil && out.Error != nil && out.Error.Message != "" {
		return fmt.Errorf("anthropic api error (%d %s): %s", status, out.Error.Type, out.Error.Message)
	}
	return fmt.Errorf("anthropic api error: status %d", status)
}

// Model returns the configured model identifier.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
