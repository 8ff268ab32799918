package law

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lawlow/internal/domain"
	models "lawlow/internal/domain/models/law"
	"lawlow/internal/domain/repositories"
	"lawlow/internal/domain/services"
)

// bookmarkService implements services.BookmarkService
type bookmarkService struct {
	repo        repositories.BookmarkRepository
	laws        services.LawService
	fanOutLimit int
	logger      *slog.Logger
}

// NewBookmarkService creates a new bookmark service
func NewBookmarkService(repo repositories.BookmarkRepository, laws services.LawService, fanOutLimit int, logger *slog.Logger) services.BookmarkService {
	return &bookmarkService{
		repo:        repo,
		laws:        laws,
		fanOutLimit: fanOutLimit,
		logger:      logger,
	}
}

// Create bookmarks a law after checking that it exists upstream.
func (s *bookmarkService) Create(ctx context.Context, userID uuid.UUID, lawType models.LawType, lawID string) (*models.Bookmark, error) {
	lawID = CanonicalLawID(lawType, lawID)

	if _, err := s.laws.GetLawDetail(ctx, lawType, lawID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("올바르지 않은 %s 식별 ID입니다.", lawType.Label())}
		}
		return nil, err
	}

	bookmark := &models.Bookmark{
		ID:      uuid.New(),
		UserID:  userID,
		LawID:   lawID,
		LawType: lawType,
	}
	if err := s.repo.Create(ctx, bookmark); err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			conflict.Message = fmt.Sprintf("이미 저장한 %s입니다.", lawType.Label())
			return nil, conflict
		}
		return nil, err
	}

	s.logger.Info("bookmark created",
		"bookmark_id", bookmark.ID,
		"user_id", userID,
		"law_type", lawType,
		"law_id", lawID,
	)

	return bookmark, nil
}

// Delete soft-deletes the active bookmark.
func (s *bookmarkService) Delete(ctx context.Context, userID uuid.UUID, lawType models.LawType, lawID string) error {
	lawID = CanonicalLawID(lawType, lawID)
	missing := &domain.ValidationError{Message: fmt.Sprintf("저장된 %s 없습니다.", lawType.Subject())}

	bookmark, err := s.repo.FindActive(ctx, userID, lawID, lawType)
	if err != nil {
		return err
	}
	if bookmark == nil {
		return missing
	}

	if err := s.repo.SoftDelete(ctx, bookmark.ID); err != nil {
		// Lost a race with a concurrent delete.
		if errors.Is(err, domain.ErrNotFound) {
			return missing
		}
		return err
	}

	s.logger.Info("bookmark deleted",
		"bookmark_id", bookmark.ID,
		"user_id", userID,
		"law_type", lawType,
		"law_id", lawID,
	)

	return nil
}

// FindActive returns the active bookmark or nil.
func (s *bookmarkService) FindActive(ctx context.Context, userID uuid.UUID, lawType models.LawType, lawID string) (*models.Bookmark, error) {
	return s.repo.FindActive(ctx, userID, CanonicalLawID(lawType, lawID), lawType)
}

// ListBookmarkedLaws pages through bookmarks, newest first, with full details.
// Pagination uses the local bookmark count.
func (s *bookmarkService) ListBookmarkedLaws(ctx context.Context, userID uuid.UUID, lawType models.LawType, query models.PageQuery) (*models.PageResponse[[]models.Detail], error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var (
		total     int
		bookmarks []models.Bookmark
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.CountActive(gctx, userID, lawType)
		return err
	})
	g.Go(func() error {
		var err error
		bookmarks, err = s.repo.ListActive(gctx, userID, lawType, query.Offset(), query.Take)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}

	details, err := fanOut(ctx, bookmarks, s.fanOutLimit, func(ctx context.Context, b models.Bookmark) (models.Detail, error) {
		detail, err := s.laws.GetLawDetail(ctx, lawType, b.LawID)
		if err != nil {
			return nil, err
		}
		detail.SetBookmarked(true)
		return detail, nil
	})
	if err != nil {
		return nil, err
	}

	return models.NewPage(details, models.Paginate(query.Page, query.Take, total, len(details))), nil
}

// MarkBookmarked decorates details with the user's bookmark state.
func (s *bookmarkService) MarkBookmarked(ctx context.Context, userID uuid.UUID, lawType models.LawType, details []models.Detail) error {
	if len(details) == 0 {
		return nil
	}
	ids := make([]string, len(details))
	for i, d := range details {
		ids[i] = d.LawID()
	}

	active, err := s.repo.ActiveLawIDs(ctx, userID, lawType, ids)
	if err != nil {
		return fmt.Errorf("load bookmark state: %w", err)
	}
	for _, d := range details {
		d.SetBookmarked(active[d.LawID()])
	}
	return nil
}
