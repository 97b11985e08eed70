package capabilities

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Providers with an embedded catalog
var knownProviders = []string{"anthropic", "lorem"}

// Registry is the catalog of generation models per provider
type Registry struct {
	providers map[string]*ProviderCapabilities
	mu        sync.RWMutex
}

// NewRegistry loads the embedded provider catalogs
func NewRegistry() (*Registry, error) {
	r := &Registry{
		providers: make(map[string]*ProviderCapabilities),
	}

	for _, provider := range knownProviders {
		if err := r.loadProviderFile(provider); err != nil {
			return nil, fmt.Errorf("failed to load %s capabilities: %w", provider, err)
		}
	}

	return r, nil
}

func (r *Registry) loadProviderFile(provider string) error {
	filename := fmt.Sprintf("config/%s.yaml", provider)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var caps ProviderCapabilities
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	if len(caps.Models) == 0 {
		return fmt.Errorf("%s lists no models", filename)
	}

	r.mu.Lock()
	r.providers[provider] = &caps
	r.mu.Unlock()

	return nil
}

// GetModelCapabilities returns capabilities for a specific model
func (r *Registry) GetModelCapabilities(provider, model string) (*ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	for i := range caps.Models {
		if caps.Models[i].ID == model {
			return &caps.Models[i], nil
		}
	}

	return nil, fmt.Errorf("unknown model %s for provider %s", model, provider)
}

// ResolveModel returns the named model, or the provider default when model is empty
func (r *Registry) ResolveModel(provider, model string) (*ModelCapabilities, error) {
	if model == "" {
		r.mu.RLock()
		caps, ok := r.providers[provider]
		r.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("unknown provider: %s", provider)
		}
		model = caps.DefaultModel
	}
	return r.GetModelCapabilities(provider, model)
}

// ListProviderModels returns all models for a provider (ordered as defined in YAML)
func (r *Registry) ListProviderModels(provider string) ([]ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	return caps.Models, nil
}
