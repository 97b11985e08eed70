package capabilities

import "gopkg.in/yaml.v3"

// ModelCapabilities describes one generation model
type ModelCapabilities struct {
	// Model identifier (set during YAML unmarshaling)
	ID string `yaml:"-" json:"id"`

	DisplayName string `yaml:"display_name" json:"display_name"`
	Description string `yaml:"description" json:"description"`

	// Limits
	ContextWindow int `yaml:"context_window" json:"context_window"`
	MaxOutput     int `yaml:"max_output" json:"max_output"`

	// USD per million tokens
	InputPrice  float64 `yaml:"input_price" json:"input_price"`
	OutputPrice float64 `yaml:"output_price" json:"output_price"`
}

// ClampMaxTokens returns requested, capped at the model's output limit
func (m *ModelCapabilities) ClampMaxTokens(requested int) int {
	if m.MaxOutput > 0 && requested > m.MaxOutput {
		return m.MaxOutput
	}
	return requested
}

// ProviderCapabilities lists the models of one generation backend
type ProviderCapabilities struct {
	Provider     string              `yaml:"provider" json:"provider"`
	DefaultModel string              `yaml:"default_model" json:"default_model"`
	Models       []ModelCapabilities `yaml:"-" json:"models"` // Ordered slice, populated by custom unmarshaler
}

// UnmarshalYAML keeps models in the order they appear in the file
func (p *ProviderCapabilities) UnmarshalYAML(node *yaml.Node) error {
	var header struct {
		Provider     string                       `yaml:"provider"`
		DefaultModel string                       `yaml:"default_model"`
		Models       map[string]ModelCapabilities `yaml:"models"`
	}
	if err := node.Decode(&header); err != nil {
		return err
	}
	p.Provider = header.Provider
	p.DefaultModel = header.DefaultModel

	// node.Content alternates key, value
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "models" {
			continue
		}
		models := node.Content[i+1]
		for j := 0; j+1 < len(models.Content); j += 2 {
			id := models.Content[j].Value
			if model, ok := header.Models[id]; ok {
				model.ID = id
				p.Models = append(p.Models, model)
			}
		}
		break
	}
	return nil
}
