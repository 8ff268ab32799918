package llm

import (
	"fmt"
	"strings"
)

// ModelInfo contains parsed provider and model information
type ModelInfo struct {
	Provider string // Provider name: "openai", "openrouter", "lorem"
	Model    string // Model identifier for that provider
}

// ParseModel extracts provider information from a model string
//
// Supported formats:
//   - "gpt-3.5-turbo" → {Provider: "openai", Model: "gpt-3.5-turbo"}
//   - "lorem-fast" → {Provider: "lorem", Model: "lorem-fast"}
//   - "openrouter/openai/gpt-3.5-turbo" → {Provider: "openrouter", Model: "openai/gpt-3.5-turbo"}
//
// Rules:
//   - If model contains "/" → split on first "/" to extract provider
//   - Else → infer provider from model prefix
func ParseModel(modelStr string) (*ModelInfo, error) {
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	if strings.Contains(modelStr, "/") {
		provider, model, _ := strings.Cut(modelStr, "/")
		if provider == "" {
			return nil, fmt.Errorf("provider cannot be empty in model string: %s", modelStr)
		}
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty in model string: %s", modelStr)
		}
		return &ModelInfo{Provider: provider, Model: model}, nil
	}

	provider := inferProvider(modelStr)
	if provider == "" {
		return nil, fmt.Errorf("unable to infer provider from model: %s", modelStr)
	}

	return &ModelInfo{
		Provider: provider,
		Model:    modelStr,
	}, nil
}

// inferProvider infers the provider from model name prefix
func inferProvider(model string) string {
	modelLower := strings.ToLower(model)

	if strings.HasPrefix(modelLower, "gpt-") || strings.HasPrefix(modelLower, "o1-") {
		return "openai"
	}

	// Lorem mock provider (for local runs and tests)
	if strings.HasPrefix(modelLower, "lorem-") {
		return "lorem"
	}

	return ""
}
