package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	domainllm "lawlow/internal/domain/services/llm"
)

// OpenAICompleter implements domainllm.Completer with the Chat Completions API.
type OpenAICompleter struct {
	client *openai.Client
}

// NewOpenAICompleter creates a completer. An empty baseURL uses api.openai.com.
func NewOpenAICompleter(apiKey, baseURL string) *OpenAICompleter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompleter{client: openai.NewClientWithConfig(cfg)}
}

// Name returns the provider name.
func (c *OpenAICompleter) Name() string {
	return "openai"
}

// Complete implements domainllm.Completer.
func (c *OpenAICompleter) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, toOpenAIRequest(req))
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai completion: no choices returned")
	}

	return &domainllm.CompletionResponse{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

// Stream implements domainllm.Completer.
func (c *OpenAICompleter) Stream(ctx context.Context, req *domainllm.CompletionRequest) (<-chan domainllm.StreamEvent, error) {
	apiReq := toOpenAIRequest(req)
	apiReq.Stream = true

	stream, err := c.client.CreateChatCompletionStream(ctx, apiReq)
	if err != nil {
		return nil, fmt.Errorf("openai stream: %w", err)
	}

	events := make(chan domainllm.StreamEvent)
	go func() {
		defer close(events)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			ev := domainllm.StreamEvent{}
			if err != nil {
				ev.Err = fmt.Errorf("openai stream: %w", err)
			} else if len(resp.Choices) > 0 {
				ev.Delta = resp.Choices[0].Delta.Content
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

func toOpenAIRequest(req *domainllm.CompletionRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}
	return openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
	}
}
