package models

import "github.com/golang-jwt/jwt/v5"

// Token kinds carried in the "typ" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims are the claims of access and refresh tokens issued by this service.
type TokenClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, exp, iat, jti)
	Email                string `json:"email,omitempty"`
	TokenType            string `json:"typ"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *TokenClaims) GetUserID() string {
	return c.Subject
}

// TokenPair is returned after a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
}
