package services

import (
	"context"

	"github.com/google/uuid"

	"lawlow/internal/domain/models"
)

// AuthService logs users in through OAuth and manages their tokens
type AuthService interface {
	// LoginURL returns the provider consent page for the given state
	LoginURL(state string) string

	// Login exchanges the OAuth code, finds or creates the user and issues tokens
	Login(ctx context.Context, code string) (*models.User, *models.TokenPair, error)

	// Refresh issues a new pair from a valid refresh token
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)

	// Me returns the current user
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
}
