package llm

import (
	"context"

	"lawlow/internal/domain/models/law"
)

// Completer is a chat completion backend.
// One instance is created at startup and shared by all requests.
type Completer interface {
	// Complete returns the full response text.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Stream returns text deltas in the order the provider produced them.
	// The channel is closed when the response ends or fails.
	Stream(ctx context.Context, req *CompletionRequest) (<-chan StreamEvent, error)

	// Name returns the provider name (e.g., "openai", "openrouter")
	Name() string
}

// CompletionRequest contains the parameters of one completion.
type CompletionRequest struct {
	Model    string
	Messages []law.PromptMessage
}

// CompletionResponse contains the provider's answer.
type CompletionResponse struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
}

// StreamEvent carries either a text delta or a terminal error.
type StreamEvent struct {
	Delta string
	Err   error
}
