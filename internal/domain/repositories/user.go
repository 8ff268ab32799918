package repositories

import (
	"context"

	"github.com/google/uuid"

	"lawlow/internal/domain/models"
)

// UserRepository defines data access for users and their OAuth identities
type UserRepository interface {
	// GetByID returns domain.ErrNotFound for unknown or deleted users
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByIdentity returns nil if no user is linked to the identity
	FindByIdentity(ctx context.Context, provider, subject string) (*models.User, error)

	Create(ctx context.Context, user *models.User) error

	// CreateIdentity links an identity; a duplicate returns *domain.ConflictError
	CreateIdentity(ctx context.Context, identity *models.OAuthIdentity) error
}
