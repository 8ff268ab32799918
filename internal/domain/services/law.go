package services

import (
	"context"

	"github.com/google/uuid"

	"lawlow/internal/domain/models/law"
)

// LawService reads precedents and statutes from the upstream law API
type LawService interface {
	// GetLawList searches and returns full details in upstream order.
	// Zero matches is an empty page, not an error.
	GetLawList(ctx context.Context, lawType law.LawType, query law.ListQuery) (*law.PageResponse[[]law.Detail], error)

	// GetLawDetail returns domain.ErrNotFound naming 판례/법령 when the record does not exist
	GetLawDetail(ctx context.Context, lawType law.LawType, id string) (law.Detail, error)
}

// BookmarkService manages a user's saved laws
type BookmarkService interface {
	// Create verifies the law exists; an unknown law is a validation error
	Create(ctx context.Context, userID uuid.UUID, lawType law.LawType, lawID string) (*law.Bookmark, error)

	// Delete soft-deletes the active bookmark; a missing one is a validation error
	Delete(ctx context.Context, userID uuid.UUID, lawType law.LawType, lawID string) error

	// FindActive returns nil when the law is not bookmarked
	FindActive(ctx context.Context, userID uuid.UUID, lawType law.LawType, lawID string) (*law.Bookmark, error)

	// ListBookmarkedLaws pages through bookmarked laws with their details
	ListBookmarkedLaws(ctx context.Context, userID uuid.UUID, lawType law.LawType, query law.PageQuery) (*law.PageResponse[[]law.Detail], error)

	// MarkBookmarked sets IsBookmarked on every detail
	MarkBookmarked(ctx context.Context, userID uuid.UUID, lawType law.LawType, details []law.Detail) error
}
