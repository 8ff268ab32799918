package auth

import "lawlow/internal/domain/models"

// JWTVerifier defines the interface for JWT token verification.
// The middleware stays agnostic of how keys are obtained (shared secret or JWKS).
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.TokenClaims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}
