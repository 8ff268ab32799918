package summary

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	models "lawlow/internal/domain/models/law"
)

// TokenCounter counts model tokens in a text.
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter counts tokens with the BPE encoding of a chat model.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the encoding used by model.
// The BPE ranks are downloaded on first use and cached by tiktoken-go.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding for %s: %w", model, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

// Count implements TokenCounter.
func (c *TiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// RuneCounter approximates one token per rune. Hangul rarely packs tighter
// than that, so it overestimates and is safe as a fallback.
type RuneCounter struct{}

// Count implements TokenCounter.
func (RuneCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

// MessageTokens counts a conversation the way the chat API bills it: every
// message adds its content, its role, and the "role:"/"content:" labels.
func MessageTokens(counter TokenCounter, msgs []models.PromptMessage) int {
	overhead := counter.Count("role:") + counter.Count("content:")
	total := 0
	for _, m := range msgs {
		total += counter.Count(m.Content) + counter.Count(string(m.Role)) + overhead
	}
	return total
}
