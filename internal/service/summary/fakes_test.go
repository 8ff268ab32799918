package summary

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"lawlow/internal/config"
	"lawlow/internal/domain"
	models "lawlow/internal/domain/models/law"
	"lawlow/internal/domain/services/llm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPrompts() config.Prompts {
	return config.Prompts{
		OnlySummary:   "ONLY_SUMMARY",
		TitleKeywords: "TITLE_KEYWORDS",
		MoreEasy:      "MORE_EASY",
	}
}

// stubLaws serves fixed details.
type stubLaws struct {
	details map[string]models.Detail
}

func (s *stubLaws) GetLawList(context.Context, models.LawType, models.ListQuery) (*models.PageResponse[[]models.Detail], error) {
	return nil, nil
}

func (s *stubLaws) GetLawDetail(_ context.Context, lawType models.LawType, id string) (models.Detail, error) {
	if d, ok := s.details[id]; ok {
		return d, nil
	}
	return nil, &domain.NotFoundError{Message: "해당하는 " + lawType.Subject() + " 없습니다."}
}

// fakeCompleter answers title requests and summary requests from separate
// scripts and records every request.
type fakeCompleter struct {
	mu           sync.Mutex
	titleAnswers []string
	summary      string
	chunks       []string
	streamErr    error
	err          error
	requests     []*llm.CompletionRequest
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}

	if isTitleRequest(req) {
		answer := ""
		if len(f.titleAnswers) > 0 {
			answer = f.titleAnswers[0]
			f.titleAnswers = f.titleAnswers[1:]
		}
		return &llm.CompletionResponse{Content: answer, Model: req.Model}, nil
	}
	return &llm.CompletionResponse{Content: f.summary, Model: req.Model}, nil
}

func (f *fakeCompleter) Stream(ctx context.Context, req *llm.CompletionRequest) (<-chan llm.StreamEvent, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	chunks := append([]string(nil), f.chunks...)
	streamErr := f.streamErr
	f.mu.Unlock()

	ch := make(chan llm.StreamEvent)
	go func() {
		defer close(ch)
		for _, c := range chunks {
			select {
			case ch <- llm.StreamEvent{Delta: c}:
			case <-ctx.Done():
				return
			}
		}
		if streamErr != nil {
			select {
			case ch <- llm.StreamEvent{Err: streamErr}:
			case <-ctx.Done():
			}
		}
	}()
	return ch, nil
}

func (f *fakeCompleter) calls() []*llm.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*llm.CompletionRequest(nil), f.requests...)
}

func isTitleRequest(req *llm.CompletionRequest) bool {
	return len(req.Messages) > 0 && req.Messages[0].Content == "TITLE_KEYWORDS"
}

func countTitleRequests(reqs []*llm.CompletionRequest) int {
	n := 0
	for _, r := range reqs {
		if isTitleRequest(r) {
			n++
		}
	}
	return n
}

func precedent(id, content string) *models.PrecedentDetail {
	return &models.PrecedentDetail{ID: id, CaseName: "사건", Content: content}
}

func repeat(s string, n int) string { return strings.Repeat(s, n) }
