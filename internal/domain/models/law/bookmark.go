package law

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark is a user's saved reference to a law. It is active while DeletedAt is nil.
type Bookmark struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"userId" db:"user_id"`
	LawID     string     `json:"lawId" db:"law_id"`
	LawType   LawType    `json:"lawType" db:"law_type"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// Active reports whether the bookmark has not been soft deleted.
func (b *Bookmark) Active() bool {
	return b.DeletedAt == nil
}
