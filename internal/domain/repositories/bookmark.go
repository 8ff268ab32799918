package repositories

import (
	"context"

	"github.com/google/uuid"

	"lawlow/internal/domain/models/law"
)

// BookmarkRepository persists law bookmarks. Only rows with deleted_at IS NULL
// are active; at most one active row exists per (user, law, type).
type BookmarkRepository interface {
	// Create inserts an active bookmark. A concurrent or repeated insert for an
	// active key returns a *domain.ConflictError.
	Create(ctx context.Context, bookmark *law.Bookmark) error

	// FindActive returns the active bookmark, or nil if there is none
	FindActive(ctx context.Context, userID uuid.UUID, lawID string, lawType law.LawType) (*law.Bookmark, error)

	// SoftDelete sets deleted_at on an active bookmark.
	// Returns domain.ErrNotFound if it is not active anymore.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// ListActive returns active bookmarks, newest first
	ListActive(ctx context.Context, userID uuid.UUID, lawType law.LawType, offset, limit int) ([]law.Bookmark, error)

	// CountActive counts active bookmarks of one type
	CountActive(ctx context.Context, userID uuid.UUID, lawType law.LawType) (int, error)

	// ActiveLawIDs returns which of lawIDs the user has bookmarked
	ActiveLawIDs(ctx context.Context, userID uuid.UUID, lawType law.LawType, lawIDs []string) (map[string]bool, error)
}
