package llm

import (
	"fmt"

	"github.com/haowjy/meridian-llm-go/providers/lorem"
	"github.com/haowjy/meridian-llm-go/providers/openrouter"

	"lawlow/internal/config"
	domainllm "lawlow/internal/domain/services/llm"
)

// ProviderFactory creates the completion backend named in the config
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// SummaryBackend is the completer plus the provider-local names of the
// standard and large summary models.
type SummaryBackend struct {
	Provider      string
	Completer     domainllm.Completer
	StandardModel string
	LargeModel    string
}

// Resolve parses SUMMARY_MODEL and SUMMARY_LARGE_MODEL and creates their
// completer. AI_PROVIDER, when set, overrides the provider inferred from the
// standard model. Both models must belong to the same provider.
func (f *ProviderFactory) Resolve() (*SummaryBackend, error) {
	standard, err := ParseModel(f.config.SummaryModel)
	if err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_MODEL: %w", err)
	}
	large, err := ParseModel(f.config.LargeModel)
	if err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_LARGE_MODEL: %w", err)
	}

	provider := f.config.AIProvider
	if provider == "" {
		provider = standard.Provider
		if large.Provider != provider {
			return nil, fmt.Errorf("summary models use different providers: %s and %s", standard.Provider, large.Provider)
		}
	}

	completer, err := f.GetCompleter(provider)
	if err != nil {
		return nil, err
	}

	return &SummaryBackend{
		Provider:      provider,
		Completer:     completer,
		StandardModel: standard.Model,
		LargeModel:    large.Model,
	}, nil
}

// GetCompleter returns a completer for the given provider name
//
// Supported providers:
//   - "openai" - OpenAI Chat Completions (default)
//   - "openrouter" - Multiple providers via OpenRouter
//   - "lorem" - Mock provider for local runs (no API key required)
func (f *ProviderFactory) GetCompleter(providerName string) (domainllm.Completer, error) {
	switch providerName {
	case "openai":
		return f.createOpenAICompleter()

	case "openrouter":
		return f.createOpenRouterCompleter()

	case "lorem":
		return NewLibraryCompleter(lorem.NewProvider()), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

func (f *ProviderFactory) createOpenAICompleter() (domainllm.Completer, error) {
	if f.config.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return NewOpenAICompleter(f.config.OpenAIAPIKey, f.config.OpenAIBaseURL), nil
}

func (f *ProviderFactory) createOpenRouterCompleter() (domainllm.Completer, error) {
	if f.config.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable not set")
	}

	provider, err := openrouter.NewProvider(f.config.OpenRouterAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter provider: %w", err)
	}
	return NewLibraryCompleter(provider), nil
}
