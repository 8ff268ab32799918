package auth

import (
	"errors"
	"fmt"
	"time"

	"lawlow/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer signs access and refresh tokens with HS256.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

// NewTokenIssuer creates an issuer. Both secrets are required.
func NewTokenIssuer(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration, issuer string) (*TokenIssuer, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		return nil, errors.New("token secrets cannot be empty")
	}
	return &TokenIssuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
		now:           time.Now,
	}, nil
}

// Issue signs a fresh access/refresh pair for the user.
func (i *TokenIssuer) Issue(user *models.User) (*models.TokenPair, error) {
	access, err := i.sign(user, models.TokenTypeAccess, i.accessTTL, i.accessSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(user, models.TokenTypeRefresh, i.refreshTTL, i.refreshSecret)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshTTL is how long the refresh cookie should live.
func (i *TokenIssuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

func (i *TokenIssuer) sign(user *models.User, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	now := i.now()
	claims := models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Email:     user.Email,
		TokenType: tokenType,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}
