// Package summary turns law details into easy-to-read summaries with an LLM.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"lawlow/internal/config"
	"lawlow/internal/domain"
	models "lawlow/internal/domain/models/law"
	"lawlow/internal/domain/services"
	"lawlow/internal/domain/services/llm"
)

// Options tune model selection and retries.
type Options struct {
	StandardModel       string
	LargeModel          string
	MaxTokens           int
	LargeModelThreshold int
	TitleKeywordRetries int
}

// DefaultOptions returns the limits of the gpt-3.5 model pair.
func DefaultOptions(standard, large string) Options {
	return Options{
		StandardModel:       standard,
		LargeModel:          large,
		MaxTokens:           config.MaxTokens,
		LargeModelThreshold: config.LargeModelThreshold,
		TitleKeywordRetries: config.TitleKeywordRetries,
	}
}

// Service implements services.SummaryService
type Service struct {
	laws      services.LawService
	completer llm.Completer
	counter   TokenCounter
	prompts   config.Prompts
	opts      Options
	logger    *slog.Logger
}

// NewService creates a new summary service
func NewService(
	laws services.LawService,
	completer llm.Completer,
	counter TokenCounter,
	prompts config.Prompts,
	opts Options,
	logger *slog.Logger,
) *Service {
	return &Service{
		laws:      laws,
		completer: completer,
		counter:   counter,
		prompts:   prompts,
		opts:      opts,
		logger:    logger,
	}
}

// Summarize answers a summary request. A first request also extracts the
// easy title and keywords in parallel; a follow-up only re-simplifies.
func (s *Service) Summarize(ctx context.Context, lawType models.LawType, id string, req models.SummaryRequest) (*models.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	detail, err := s.laws.GetLawDetail(ctx, lawType, id)
	if err != nil {
		return nil, err
	}

	msgs, err := BuildMessages(detail, s.prompts, BuildOptions{OnlySummary: true, RecentSummary: req.RecentSummaryMsg})
	if err != nil {
		return nil, fmt.Errorf("build summary messages: %w", err)
	}

	if !req.IsFirst() {
		summary, err := s.complete(ctx, msgs)
		if err != nil {
			return nil, err
		}
		return &models.SummaryResponse{Summary: summary}, nil
	}

	var (
		summary string
		tk      *models.TitleKeywords
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.complete(gctx, msgs)
		return err
	})
	g.Go(func() error {
		var err error
		tk, err = s.ExtractTitleAndKeywords(gctx, detail, s.opts.TitleKeywordRetries)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.SummaryResponse{
		EasyTitle: tk.EasyTitle,
		Summary:   summary,
		Keywords:  tk.Keywords,
	}, nil
}

// TitleAndKeywords implements services.SummaryService.
func (s *Service) TitleAndKeywords(ctx context.Context, lawType models.LawType, id string) (*models.TitleKeywords, error) {
	detail, err := s.laws.GetLawDetail(ctx, lawType, id)
	if err != nil {
		return nil, err
	}
	return s.ExtractTitleAndKeywords(ctx, detail, s.opts.TitleKeywordRetries)
}

// ExtractTitleAndKeywords asks for the "제목:/키워드:" format and retries up
// to maxRetries more times when the answer does not follow it. Provider
// errors are returned as they are, without retrying.
func (s *Service) ExtractTitleAndKeywords(ctx context.Context, detail models.Detail, maxRetries int) (*models.TitleKeywords, error) {
	msgs, err := BuildMessages(detail, s.prompts, BuildOptions{})
	if err != nil {
		return nil, fmt.Errorf("build title messages: %w", err)
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		answer, err := s.complete(ctx, msgs)
		if err != nil {
			return nil, err
		}
		if title, keywords, ok := ParseTitleKeywords(answer); ok {
			return &models.TitleKeywords{EasyTitle: title, Keywords: keywords}, nil
		}
		s.logger.Warn("title/keyword answer unparseable",
			"law_type", detail.Type(),
			"law_id", detail.LawID(),
			"attempt", attempt+1,
		)
	}

	return nil, &domain.InternalError{Message: "요약 제목과 키워드를 생성하지 못했습니다."}
}

// SummarizeStream implements services.SummaryService. Empty deltas are
// skipped. When onChunk fails the client is gone, so the stream is
// abandoned without an error.
func (s *Service) SummarizeStream(ctx context.Context, lawType models.LawType, id string, req models.SummaryRequest, onChunk func(string) error) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	detail, err := s.laws.GetLawDetail(ctx, lawType, id)
	if err != nil {
		return err
	}

	msgs, err := BuildMessages(detail, s.prompts, BuildOptions{OnlySummary: true, RecentSummary: req.RecentSummaryMsg})
	if err != nil {
		return fmt.Errorf("build summary messages: %w", err)
	}
	creq, err := s.prepare(msgs)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := s.completer.Stream(ctx, creq)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	for ev := range events {
		if ev.Err != nil {
			if errors.Is(ev.Err, context.Canceled) && ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %w", domain.ErrUpstream, ev.Err)
		}
		if ev.Delta == "" {
			continue
		}
		if err := onChunk(ev.Delta); err != nil {
			s.logger.Debug("summary stream abandoned", "law_type", lawType, "law_id", id, "error", err)
			return nil
		}
	}
	return nil
}

// prepare fits msgs to the token budget and picks the model.
func (s *Service) prepare(msgs []models.PromptMessage) (*llm.CompletionRequest, error) {
	fitted, tokens, err := FitToTokenBudget(s.counter, msgs, s.opts.MaxTokens)
	if err != nil {
		return nil, err
	}
	model := SelectModel(tokens, s.opts.LargeModelThreshold, s.opts.StandardModel, s.opts.LargeModel)

	s.logger.Debug("summary request prepared",
		"provider", s.completer.Name(),
		"model", model,
		"tokens", tokens,
	)

	return &llm.CompletionRequest{Model: model, Messages: fitted}, nil
}

func (s *Service) complete(ctx context.Context, msgs []models.PromptMessage) (string, error) {
	req, err := s.prepare(msgs)
	if err != nil {
		return "", err
	}
	resp, err := s.completer.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	return resp.Content, nil
}

var _ services.SummaryService = (*Service)(nil)
