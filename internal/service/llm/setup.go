// Package llm wires the text generation backend used to draft documents.
package llm

import (
	"fmt"
	"log/slog"
	"strings"

	"leasedoc/internal/capabilities"
	"leasedoc/internal/config"
	llmSvc "leasedoc/internal/domain/services/llm"
	"leasedoc/internal/service/llm/providers/anthropic"
	"leasedoc/internal/service/llm/providers/lorem"
)

// NewGenerationClient returns the backend selected by GENERATION_PROVIDER.
// The model must be in the capability catalog; the token budget is capped at
// the model's output limit.
func NewGenerationClient(cfg *config.Config, registry *capabilities.Registry, logger *slog.Logger) (llmSvc.GenerationClient, error) {
	switch cfg.GenerationProvider {
	case "anthropic":
		model, err := registry.ResolveModel("anthropic", cfg.GenerationModel)
		if err != nil {
			return nil, fmt.Errorf("generation model: %w", err)
		}

		maxTokens := model.ClampMaxTokens(cfg.GenerationMaxTokens)
		if maxTokens != cfg.GenerationMaxTokens {
			logger.Warn("GENERATION_MAX_TOKENS above model limit, clamped",
				"model", model.ID,
				"requested", cfg.GenerationMaxTokens,
				"max_output", model.MaxOutput,
			)
		}

		client, err := anthropic.NewClient(anthropic.Config{
			APIKey:    cfg.AnthropicAPIKey,
			BaseURL:   cfg.AnthropicBaseURL,
			Model:     model.ID,
			MaxTokens: maxTokens,
			Timeout:   cfg.GenerationTimeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Anthropic client: %w", err)
		}

		logger.Info("generation provider ready", "provider", "anthropic", "model", model.ID, "max_tokens", maxTokens)
		return client, nil

	case "lorem":
		// GENERATION_MODEL defaults to a Claude model; only honor lorem-* names here
		requested := cfg.GenerationModel
		if !strings.HasPrefix(requested, "lorem-") {
			requested = ""
		}
		model, err := registry.ResolveModel("lorem", requested)
		if err != nil {
			return nil, fmt.Errorf("generation model: %w", err)
		}

		logger.Warn("using lorem generation provider, documents will contain placeholder text", "model", model.ID)
		return lorem.NewProvider(model.ID), nil

	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", cfg.GenerationProvider)
	}
}
