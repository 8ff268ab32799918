package services

import (
	"context"

	"lawlow/internal/domain/models/law"
)

// SummaryService produces easy-to-read summaries of laws
type SummaryService interface {
	// Summarize returns title, summary and keywords on a first request and
	// only the summary when req carries a previous summary to simplify.
	Summarize(ctx context.Context, lawType law.LawType, id string, req law.SummaryRequest) (*law.SummaryResponse, error)

	// TitleAndKeywords returns only the easy title and keywords
	TitleAndKeywords(ctx context.Context, lawType law.LawType, id string) (*law.TitleKeywords, error)

	// SummarizeStream forwards summary chunks to onChunk in arrival order.
	// Chunks already delivered stay delivered when a later step fails.
	SummarizeStream(ctx context.Context, lawType law.LawType, id string, req law.SummaryRequest, onChunk func(string) error) error
}
