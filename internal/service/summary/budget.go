package summary

import (
	"unicode/utf8"

	"lawlow/internal/domain"
	models "lawlow/internal/domain/models/law"
)

// errTooLong is returned when halving cannot bring a conversation under budget.
var errTooLong = &domain.ValidationError{Message: "요청한 메시지의 길이가 너무 깁니다. 메시지를 줄여주세요."}

// FitToTokenBudget halves the longest message until the conversation fits
// in maxTokens. It returns a new slice and its token count; msgs is not
// modified. Halving cuts on rune boundaries and keeps the prefix. When
// several messages share the longest length the earliest one is cut.
func FitToTokenBudget(counter TokenCounter, msgs []models.PromptMessage, maxTokens int) ([]models.PromptMessage, int, error) {
	out := make([]models.PromptMessage, len(msgs))
	copy(out, msgs)

	total := MessageTokens(counter, out)
	for total > maxTokens {
		longest, longestLen := -1, 0
		for i, m := range out {
			if n := utf8.RuneCountInString(m.Content); n > longestLen {
				longest, longestLen = i, n
			}
		}
		if longest < 0 {
			// Only role overhead is left.
			return nil, total, errTooLong
		}

		out[longest].Content = truncateRunes(out[longest].Content, longestLen/2)
		total = MessageTokens(counter, out)
	}

	return out, total, nil
}

// SelectModel picks the large model when the conversation does not fit the
// standard model's context window.
func SelectModel(tokens, threshold int, standard, large string) string {
	if tokens > threshold {
		return large
	}
	return standard
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
