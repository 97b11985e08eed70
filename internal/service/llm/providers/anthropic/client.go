package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"leasedoc/internal/domain"
)

// Config holds the settings of the Anthropic generation client
type Config struct {
	APIKey    string
	BaseURL   string // Empty uses the SDK default
	Model     string
	MaxTokens int
	Timeout   time.Duration

	// HTTPClient overrides the transport, mainly for tests
	HTTPClient *http.Client
}

// Client implements llm.GenerationClient on the Anthropic Messages API
type Client struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	logger    *slog.Logger
}

// NewClient creates a client that makes exactly one API call per completion
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("anthropic model is required")
	}
	if cfg.MaxTokens <= 0 {
		return nil, fmt.Errorf("max tokens must be positive")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Client{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
		timeout:   cfg.Timeout,
		logger:    logger,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "anthropic"
}

// Complete sends the prompts and returns the first text block of the reply
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	start := time.Now()
	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", c.upstreamError(err)
	}

	c.logger.Debug("generation completed",
		"model", c.model,
		"stop_reason", message.StopReason,
		"input_tokens", message.Usage.InputTokens,
		"output_tokens", message.Usage.OutputTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	for _, block := range message.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("%w: model %s returned %d content blocks", domain.ErrEmptyResponse, c.model, len(message.Content))
}

// upstreamError logs the failure and maps it to domain.ErrUpstreamUnavailable.
// Only the status code and error type are kept; the SDK error text can echo request headers.
func (c *Client) upstreamError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		c.logger.Error("generation request rejected",
			"model", c.model,
			"status", apiErr.StatusCode,
		)
		return fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, apiErr.StatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		c.logger.Error("generation request timed out", "model", c.model, "timeout", c.timeout)
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, context.DeadlineExceeded)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, context.Canceled)
	}

	c.logger.Error("generation request failed", "model", c.model, "error_type", fmt.Sprintf("%T", err))
	return fmt.Errorf("%w: transport error", domain.ErrUpstreamUnavailable)
}
