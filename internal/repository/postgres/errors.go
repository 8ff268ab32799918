package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"lawlow/internal/domain"
)

// SQLSTATE codes the repositories branch on.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgCode returns the SQLSTATE of a wrapped *pgconn.PgError, or "".
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsPgDuplicateError(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

func IsPgForeignKeyError(err error) bool {
	return pgCode(err) == pgForeignKeyViolation
}

func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// conflictFromPg turns a unique violation into a domain conflict on the named
// resource. Any other error gives nil.
func conflictFromPg(err error, resourceType, resourceID, message string) *domain.ConflictError {
	if !IsPgDuplicateError(err) {
		return nil
	}
	return &domain.ConflictError{
		Message:      message,
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}
