// Package law implements the precedent/statute orchestrator and the
// bookmark service on top of the upstream law API.
package law

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"lawlow/internal/domain"
	models "lawlow/internal/domain/models/law"
	"lawlow/internal/domain/services"
	"lawlow/internal/service/law/external"
)

// summaryIDField names the id element of a search result per law type.
var summaryIDField = map[models.LawType]string{
	models.TypePrecedent: "판례일련번호",
	models.TypeStatute:   "법령ID",
}

// lawService implements services.LawService
type lawService struct {
	client      external.LawClient
	fanOutLimit int
	logger      *slog.Logger
}

// NewLawService creates a new law service. fanOutLimit bounds concurrent
// detail fetches per request (<= 0 means unbounded).
func NewLawService(client external.LawClient, fanOutLimit int, logger *slog.Logger) services.LawService {
	return &lawService{
		client:      client,
		fanOutLimit: fanOutLimit,
		logger:      logger,
	}
}

// GetLawList searches upstream and returns the full details of the page.
func (s *lawService) GetLawList(ctx context.Context, lawType models.LawType, query models.ListQuery) (*models.PageResponse[[]models.Detail], error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	env, err := s.client.Search(ctx, models.SearchParams{
		Query: query.Query,
		Type:  lawType,
		Page:  query.Page,
		Take:  query.Take,
	})
	if err != nil {
		return nil, err
	}

	ids := LawIDList(env, lawType)
	if len(ids) == 0 {
		return models.NewPage([]models.Detail{}, models.Paginate(query.Page, query.Take, env.TotalCount, 0)), nil
	}

	details, err := fanOut(ctx, ids, s.fanOutLimit, func(ctx context.Context, id string) (models.Detail, error) {
		detail, err := s.GetLawDetail(ctx, lawType, id)
		if errors.Is(err, domain.ErrNotFound) {
			// The search listed it, so a missing detail is an upstream inconsistency.
			return nil, &domain.InternalError{Message: fmt.Sprintf("검색된 %s(%s)의 상세 정보를 찾을 수 없습니다.", lawType.Label(), id)}
		}
		return detail, err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("law list fetched",
		"type", lawType,
		"query", query.Query,
		"page", query.Page,
		"total", env.TotalCount,
		"returned", len(details),
	)

	return models.NewPage(details, models.Paginate(query.Page, query.Take, env.TotalCount, len(details))), nil
}

// GetLawDetail fetches one record.
func (s *lawService) GetLawDetail(ctx context.Context, lawType models.LawType, id string) (models.Detail, error) {
	id = CanonicalLawID(lawType, id)
	if id == "" {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("올바르지 않은 %s 식별 ID입니다.", lawType.Label())}
	}

	node, err := s.client.FetchDetail(ctx, id, lawType)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("해당하는 %s 없습니다.", lawType.Subject())}
	}
	return shapeDetail(lawType, node), nil
}

// LawIDList extracts result ids from a search envelope. A lone result and a
// one-element array give the same list.
func LawIDList(env *models.LawSearchEnvelope, lawType models.LawType) []string {
	if env == nil {
		return nil
	}
	field := summaryIDField[lawType]
	var ids []string
	for _, result := range env.Results.AsList() {
		if id := CanonicalLawID(lawType, result.Get(field).String()); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// CanonicalLawID trims an id and strips the zero padding of numeric statute
// ids ("001706" and "1706" name the same statute).
func CanonicalLawID(lawType models.LawType, id string) string {
	id = strings.TrimSpace(id)
	if lawType != models.TypeStatute {
		return id
	}
	if n, err := strconv.Atoi(id); err == nil && n >= 0 {
		return strconv.Itoa(n)
	}
	return id
}

var _ external.LawClient = (*CachedLawClient)(nil)
