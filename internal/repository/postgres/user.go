package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lawlow/internal/domain"
	"lawlow/internal/domain/models"
	"lawlow/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new PostgresUserRepository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByID retrieves an active user
func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, name, created_at, deleted_at
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, r.tables.Users)

	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
		&user.DeletedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// FindByIdentity returns the active user linked to an OAuth identity, or nil
func (r *PostgresUserRepository) FindByIdentity(ctx context.Context, provider, subject string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT u.id, u.email, u.name, u.created_at, u.deleted_at
		FROM %s i
		JOIN %s u ON u.id = i.user_id
		WHERE i.provider = $1 AND i.subject = $2 AND u.deleted_at IS NULL
	`, r.tables.OAuthIdentities, r.tables.Users)

	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, provider, subject).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
		&user.DeletedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			// First login for this identity - not an error
			return nil, nil
		}
		return nil, fmt.Errorf("find user by identity: %w", err)
	}

	return &user, nil
}

// Create inserts a user
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, email, name)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, user.ID, user.Email, user.Name).Scan(&user.CreatedAt); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	r.logger.Debug("user created", "user_id", user.ID)
	return nil
}

// CreateIdentity links an OAuth identity to a user
func (r *PostgresUserRepository) CreateIdentity(ctx context.Context, identity *models.OAuthIdentity) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (provider, subject, user_id)
		VALUES ($1, $2, $3)
	`, r.tables.OAuthIdentities)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, identity.Provider, identity.Subject, identity.UserID); err != nil {
		if conflict := conflictFromPg(err, "oauth_identity", identity.Subject, fmt.Sprintf("%s identity already linked", identity.Provider)); conflict != nil {
			return conflict
		}
		return fmt.Errorf("create identity: %w", err)
	}

	return nil
}
