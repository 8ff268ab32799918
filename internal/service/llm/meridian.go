package llm

import (
	"context"
	"fmt"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"

	"lawlow/internal/domain/models/law"
	domainllm "lawlow/internal/domain/services/llm"
)

// LibraryCompleter adapts a meridian-llm-go provider (OpenRouter or the
// lorem mock) to domainllm.Completer.
type LibraryCompleter struct {
	provider llmprovider.Provider
}

// NewLibraryCompleter wraps an existing library provider.
func NewLibraryCompleter(provider llmprovider.Provider) *LibraryCompleter {
	return &LibraryCompleter{provider: provider}
}

// Name returns the provider name.
func (c *LibraryCompleter) Name() string {
	return c.provider.Name().String()
}

// Complete implements domainllm.Completer.
func (c *LibraryCompleter) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	resp, err := c.provider.GenerateResponse(ctx, toLibraryRequest(req))
	if err != nil {
		return nil, fmt.Errorf("%s completion: %w", c.Name(), err)
	}

	var text strings.Builder
	for _, block := range resp.Blocks {
		if block.TextContent != nil {
			text.WriteString(*block.TextContent)
		}
	}

	return &domainllm.CompletionResponse{
		Content:      text.String(),
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}, nil
}

// Stream implements domainllm.Completer. Only text deltas are forwarded.
func (c *LibraryCompleter) Stream(ctx context.Context, req *domainllm.CompletionRequest) (<-chan domainllm.StreamEvent, error) {
	libEvents, err := c.provider.StreamResponse(ctx, toLibraryRequest(req))
	if err != nil {
		return nil, fmt.Errorf("%s stream: %w", c.Name(), err)
	}

	events := make(chan domainllm.StreamEvent)
	go func() {
		defer close(events)
		for libEvent := range libEvents {
			var ev domainllm.StreamEvent
			switch {
			case libEvent.Error != nil:
				ev.Err = fmt.Errorf("%s stream: %w", c.Name(), libEvent.Error)
			case libEvent.Delta != nil && libEvent.Delta.TextDelta != nil:
				ev.Delta = *libEvent.Delta.TextDelta
			default:
				continue
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
			if ev.Err != nil {
				return
			}
		}
	}()

	return events, nil
}

// toLibraryRequest moves system turns into RequestParams.System and turns
// every other message into a single text block.
func toLibraryRequest(req *domainllm.CompletionRequest) *llmprovider.GenerateRequest {
	var (
		system   []string
		messages []llmprovider.Message
	)
	for _, msg := range req.Messages {
		if msg.Role == law.RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		text := msg.Content
		messages = append(messages, llmprovider.Message{
			Role: string(msg.Role),
			Blocks: []*llmprovider.Block{{
				BlockType:   "text",
				Sequence:    0,
				TextContent: &text,
			}},
		})
	}

	libReq := &llmprovider.GenerateRequest{
		Messages: messages,
		Model:    req.Model,
	}
	if len(system) > 0 {
		joined := strings.Join(system, "\n\n")
		libReq.Params = &llmprovider.RequestParams{System: &joined}
	}
	return libReq
}
