package llm

import (
	"fmt"
	"log/slog"

	"lawlow/internal/capabilities"
	"lawlow/internal/config"
	"lawlow/internal/domain/services"
	"lawlow/internal/service/summary"
)

// SetupSummary resolves the configured provider and builds the summary
// service on top of laws.
func SetupSummary(cfg *config.Config, laws services.LawService, logger *slog.Logger) (*summary.Service, error) {
	backend, err := NewProviderFactory(cfg).Resolve()
	if err != nil {
		return nil, fmt.Errorf("summary provider setup failed: %w", err)
	}

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load model capabilities: %w", err)
	}

	// Listed models take their real windows; unlisted ones keep the gpt-3.5 limits.
	opts := summary.DefaultOptions(backend.StandardModel, backend.LargeModel)
	opts.LargeModelThreshold = capabilityRegistry.ContextWindow(backend.Provider, backend.StandardModel, opts.LargeModelThreshold)
	opts.MaxTokens = capabilityRegistry.ContextWindow(backend.Provider, backend.LargeModel, opts.MaxTokens)

	logger.Info("summary provider available",
		"name", backend.Completer.Name(),
		"standard_model", backend.StandardModel,
		"large_model", backend.LargeModel,
		"large_model_threshold", opts.LargeModelThreshold,
		"max_tokens", opts.MaxTokens,
	)

	return summary.NewService(
		laws,
		backend.Completer,
		newTokenCounter(backend.StandardModel, logger),
		cfg.Prompts,
		opts,
		logger,
	), nil
}

// newTokenCounter prefers the model's BPE encoding. Models tiktoken does not
// know (lorem, most OpenRouter ids) and offline starts get the rune counter.
func newTokenCounter(model string, logger *slog.Logger) summary.TokenCounter {
	counter, err := summary.NewTiktokenCounter(model)
	if err != nil {
		logger.Warn("tiktoken unavailable, counting runes instead", "model", model, "error", err)
		return summary.RuneCounter{}
	}
	return counter
}
