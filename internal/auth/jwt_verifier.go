package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lawlow/internal/domain"
	"lawlow/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier implements JWTVerifier for tokens signed with a shared secret
// (our own access/refresh tokens) or with keys published at a JWKS endpoint.
type TokenVerifier struct {
	keyfunc   jwt.Keyfunc
	methods   []string
	tokenType string
	logger    *slog.Logger
}

// NewHMACVerifier verifies HS256 tokens of the given type ("access" or "refresh").
func NewHMACVerifier(secret []byte, tokenType string, logger *slog.Logger) (*TokenVerifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &TokenVerifier{
		keyfunc:   func(*jwt.Token) (interface{}, error) { return secret, nil },
		methods:   []string{jwt.SigningMethodHS256.Alg()},
		tokenType: tokenType,
		logger:    logger,
	}, nil
}

// NewJWKSVerifier verifies access tokens signed by an external issuer.
// keyfunc v3 caches the JWKS and refreshes it based on HTTP cache headers.
func NewJWKSVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (*TokenVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &TokenVerifier{
		keyfunc:   jwks.Keyfunc,
		methods:   []string{"RS256", "ES256"},
		tokenType: models.TokenTypeAccess,
		logger:    logger,
	}, nil
}

// VerifyToken validates a JWT token and extracts its claims.
func (v *TokenVerifier) VerifyToken(tokenString string) (*models.TokenClaims, error) {
	// WithValidMethods prevents algorithm confusion attacks
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, v.keyfunc, jwt.WithValidMethods(v.methods))
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok {
		v.logger.Error("failed to extract claims from token")
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	// External issuers do not set typ; only our own tokens are checked.
	if claims.TokenType != "" && claims.TokenType != v.tokenType {
		v.logger.Warn("token has unexpected type", "type", claims.TokenType, "expected", v.tokenType, "user_id", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close is a no-op; keyfunc v3 manages its own refresh goroutine lifecycle.
func (v *TokenVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}
