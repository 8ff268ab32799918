package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lawlow/internal/domain"
	"lawlow/internal/domain/models/law"
	"lawlow/internal/domain/repositories"
)

// PostgresBookmarkRepository implements the BookmarkRepository interface
type PostgresBookmarkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(config *RepositoryConfig) repositories.BookmarkRepository {
	return &PostgresBookmarkRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts an active bookmark. The partial unique index turns a second
// active row into a conflict, including one inserted concurrently.
func (r *PostgresBookmarkRepository) Create(ctx context.Context, b *law.Bookmark) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, law_id, law_type)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, r.tables.Bookmarks)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, b.ID, b.UserID, b.LawID, string(b.LawType)).Scan(&b.CreatedAt)
	if err != nil {
		if conflict := conflictFromPg(err, "bookmark", b.LawID, fmt.Sprintf("%s %s already bookmarked", b.LawType, b.LawID)); conflict != nil {
			return conflict
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("user %s: %w", b.UserID, domain.ErrNotFound)
		}
		return fmt.Errorf("create bookmark: %w", err)
	}

	return nil
}

// FindActive returns nil when the law is not bookmarked
func (r *PostgresBookmarkRepository) FindActive(ctx context.Context, userID uuid.UUID, lawID string, lawType law.LawType) (*law.Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, law_id, law_type, created_at, deleted_at
		FROM %s
		WHERE user_id = $1 AND law_id = $2 AND law_type = $3 AND deleted_at IS NULL
	`, r.tables.Bookmarks)

	executor := GetExecutor(ctx, r.pool)
	b, err := scanBookmark(executor.QueryRow(ctx, query, userID, lawID, string(lawType)))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find bookmark: %w", err)
	}

	return b, nil
}

// SoftDelete marks an active bookmark deleted
func (r *PostgresBookmarkRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, r.tables.Bookmarks)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListActive returns active bookmarks, newest first
func (r *PostgresBookmarkRepository) ListActive(ctx context.Context, userID uuid.UUID, lawType law.LawType, offset, limit int) ([]law.Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, law_id, law_type, created_at, deleted_at
		FROM %s
		WHERE user_id = $1 AND law_type = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC, id
		OFFSET $3 LIMIT $4
	`, r.tables.Bookmarks)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, string(lawType), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []law.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}

	return bookmarks, nil
}

// CountActive counts active bookmarks of one type
func (r *PostgresBookmarkRepository) CountActive(ctx context.Context, userID uuid.UUID, lawType law.LawType) (int, error) {
	query := fmt.Sprintf(`
		SELECT count(*)
		FROM %s
		WHERE user_id = $1 AND law_type = $2 AND deleted_at IS NULL
	`, r.tables.Bookmarks)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, userID, string(lawType)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookmarks: %w", err)
	}

	return count, nil
}

// ActiveLawIDs returns which of lawIDs the user has bookmarked
func (r *PostgresBookmarkRepository) ActiveLawIDs(ctx context.Context, userID uuid.UUID, lawType law.LawType, lawIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(lawIDs))
	if len(lawIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT law_id
		FROM %s
		WHERE user_id = $1 AND law_type = $2 AND law_id = ANY($3) AND deleted_at IS NULL
	`, r.tables.Bookmarks)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, string(lawType), lawIDs)
	if err != nil {
		return nil, fmt.Errorf("load bookmarked ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan bookmarked id: %w", err)
		}
		result[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarked ids: %w", err)
	}

	return result, nil
}

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row rowScanner) (*law.Bookmark, error) {
	var (
		b       law.Bookmark
		lawType string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.LawID, &lawType, &b.CreatedAt, &b.DeletedAt); err != nil {
		return nil, err
	}
	b.LawType = law.LawType(lawType)
	return &b, nil
}
