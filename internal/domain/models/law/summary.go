package law

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Role of a prompt message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PromptMessage is one turn of a summary conversation.
type PromptMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SummaryRequest is the body of a summary request. A non-empty
// RecentSummaryMsg asks for an easier rephrasing of that summary.
type SummaryRequest struct {
	RecentSummaryMsg string `json:"recentSummaryMsg"`
}

// Validate implements ozzo validation.
func (r SummaryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RecentSummaryMsg, validation.RuneLength(0, 20000)),
	)
}

// IsFirst reports whether no previous summary was supplied.
func (r SummaryRequest) IsFirst() bool {
	return r.RecentSummaryMsg == ""
}

// SummaryResponse is returned by the summary endpoint. Title and keywords are
// only present on the first summary of a law.
type SummaryResponse struct {
	EasyTitle string   `json:"easyTitle,omitempty"`
	Summary   string   `json:"summary"`
	Keywords  []string `json:"keywords,omitempty"`
}

// TitleKeywords is the result of title and keyword extraction.
type TitleKeywords struct {
	EasyTitle string   `json:"easyTitle"`
	Keywords  []string `json:"keywords"`
}
