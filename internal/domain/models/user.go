package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account created on first OAuth login.
type User struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	Name      string     `json:"name" db:"name"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// OAuthIdentity links an external account to a user.
type OAuthIdentity struct {
	Provider string    `db:"provider"`
	Subject  string    `db:"subject"`
	UserID   uuid.UUID `db:"user_id"`
}

// OAuthProfile is what an identity provider tells us about the user.
type OAuthProfile struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}
