package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"leasedoc/internal/capabilities"
	"leasedoc/internal/config"
	"leasedoc/internal/domain/models"
	"leasedoc/internal/httputil"
)

// ModelsHandler reports what the generation backend can do
type ModelsHandler struct {
	config   *config.Config
	logger   *slog.Logger
	registry *capabilities.Registry
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(cfg *config.Config, logger *slog.Logger, registry *capabilities.Registry) *ModelsHandler {
	return &ModelsHandler{
		config:   cfg,
		logger:   logger,
		registry: registry,
	}
}

// CapabilitiesResponse describes the configured generation backend
type CapabilitiesResponse struct {
	Provider      string                           `json:"provider"`
	ActiveModel   string                           `json:"active_model"`
	MaxTokens     int                              `json:"max_tokens"`
	Models        []capabilities.ModelCapabilities `json:"models"`
	DocumentTypes []models.DocumentType            `json:"document_types"`
}

// GetCapabilities returns the active provider's models and the supported document types
// GET /api/models/capabilities
func (h *ModelsHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	provider := h.config.GenerationProvider

	available, err := h.registry.ListProviderModels(provider)
	if err != nil {
		h.logger.Error("capabilities lookup failed", "provider", provider, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := CapabilitiesResponse{
		Provider:      provider,
		MaxTokens:     h.config.GenerationMaxTokens,
		Models:        available,
		DocumentTypes: models.DocumentTypes,
	}
	model := h.config.GenerationModel
	if provider == "lorem" && !strings.HasPrefix(model, "lorem-") {
		model = ""
	}
	if active, err := h.registry.ResolveModel(provider, model); err == nil {
		resp.ActiveModel = active.ID
		resp.MaxTokens = active.ClampMaxTokens(h.config.GenerationMaxTokens)
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
