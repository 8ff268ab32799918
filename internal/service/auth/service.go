// Package auth implements OAuth login and token refresh.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	jwtauth "lawlow/internal/auth"
	"lawlow/internal/domain"
	"lawlow/internal/domain/models"
	"lawlow/internal/domain/repositories"
	"lawlow/internal/domain/services"
)

// Service implements services.AuthService
type Service struct {
	provider jwtauth.OAuthProvider
	issuer   *jwtauth.TokenIssuer
	refresh  jwtauth.JWTVerifier
	users    repositories.UserRepository
	tx       repositories.TransactionManager
	logger   *slog.Logger
}

// NewService creates a new auth service. refresh verifies refresh tokens.
func NewService(
	provider jwtauth.OAuthProvider,
	issuer *jwtauth.TokenIssuer,
	refresh jwtauth.JWTVerifier,
	users repositories.UserRepository,
	tx repositories.TransactionManager,
	logger *slog.Logger,
) *Service {
	return &Service{
		provider: provider,
		issuer:   issuer,
		refresh:  refresh,
		users:    users,
		tx:       tx,
		logger:   logger,
	}
}

// LoginURL implements services.AuthService.
func (s *Service) LoginURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

// Login exchanges the code and signs the user in, creating the account and
// its identity link on first login.
func (s *Service) Login(ctx context.Context, code string) (*models.User, *models.TokenPair, error) {
	if code == "" {
		return nil, nil, &domain.ValidationError{Message: "missing authorization code"}
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.findOrCreate(ctx, profile)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issuer.Issue(user)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "provider", profile.Provider)
	return user, pair, nil
}

func (s *Service) findOrCreate(ctx context.Context, profile *models.OAuthProfile) (*models.User, error) {
	user, err := s.users.FindByIdentity(ctx, profile.Provider, profile.Subject)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{ID: uuid.New(), Email: profile.Email, Name: profile.Name}
	err = s.tx.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		return s.users.CreateIdentity(ctx, &models.OAuthIdentity{
			Provider: profile.Provider,
			Subject:  profile.Subject,
			UserID:   user.ID,
		})
	})
	if errors.Is(err, domain.ErrConflict) {
		// A concurrent first login linked the identity; use that user.
		existing, findErr := s.users.FindByIdentity(ctx, profile.Provider, profile.Subject)
		if findErr != nil {
			return nil, findErr
		}
		if existing != nil {
			return existing, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "provider", profile.Provider)
	return user, nil
}

// Refresh implements services.AuthService.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrUnauthorized
	}

	claims, err := s.refresh.VerifyToken(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.GetUserID())
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	return s.issuer.Issue(user)
}

// Me implements services.AuthService.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

var _ services.AuthService = (*Service)(nil)
