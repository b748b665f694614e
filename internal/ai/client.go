// Package ai implements integration with an OpenAI-compatible API. It
// provides the completion client, prompt composition, and the moderation
// gate used by the bot.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dmarques/relaybot/internal/config"
)

// Client defines the AI operations used throughout the application.
type Client interface {
	// CreateCompletion sends the composed message sequence to the
	// completion API and returns the generated reply text.
	CreateCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)

	// Moderate classifies text and returns the names of violated policy
	// categories, in the classification result's declared order. An empty
	// slice means the text is clean. Errors from the underlying call are
	// returned as-is; a failed check is never treated as clean.
	Moderate(ctx context.Context, text string) ([]string, error)
}

type sdkClient struct {
	api         *openai.Client
	log         *slog.Logger
	model       string
	temperature float32
	maxRetries  int
	retryDelay  time.Duration
}

// NewClient creates a new completion/moderation client with the provided
// configuration.
func NewClient(cfg config.AIConfig, log *slog.Logger) (Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("AI API token is required")
	}

	apiCfg := openai.DefaultConfig(cfg.Token)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	logger := log.With("component", "ai_client")
	logger.Info("AI client initialized", "model", cfg.Model, "base_url", apiCfg.BaseURL)

	return &sdkClient{
		api:         openai.NewClientWithConfig(apiCfg),
		log:         logger,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
	}, nil
}

func (c *sdkClient) CreateCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	c.log.DebugContext(ctx, "Requesting completion", "message_count", len(messages))

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	}

	resp, err := c.completionWithRetries(ctx, req)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion API returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *sdkClient) completionWithRetries(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var resp openai.ChatCompletionResponse
	var err error

	for i := 0; i <= c.maxRetries; i++ {
		resp, err = c.api.CreateChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}

		c.log.WarnContext(ctx, "Completion API call failed, checking for retry",
			"attempt", i+1, "max_retries", c.maxRetries, "error", err)

		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && (apiErr.HTTPStatusCode == 500 || apiErr.HTTPStatusCode == 503) {
			if i < c.maxRetries {
				c.log.InfoContext(ctx, "Retrying completion API call", "delay", c.retryDelay, "status", apiErr.HTTPStatusCode)
				select {
				case <-ctx.Done():
					return resp, fmt.Errorf("completion API call cancelled during retry wait: %w", ctx.Err())
				case <-time.After(c.retryDelay):
				}
				continue
			}
			return resp, fmt.Errorf("completion API call failed after %d retries (status %d): %w", c.maxRetries, apiErr.HTTPStatusCode, err)
		}

		return resp, fmt.Errorf("completion API call failed: %w", err)
	}

	return resp, err
}
