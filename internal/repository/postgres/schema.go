package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL creates the tables for one prefix. Active bookmarks are unique per
// (user, law, type); soft-deleted rows are kept and do not block a new one.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS {{users}} (
	id         UUID PRIMARY KEY,
	email      TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS {{oauth_identities}} (
	provider   TEXT NOT NULL,
	subject    TEXT NOT NULL,
	user_id    UUID NOT NULL REFERENCES {{users}}(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (provider, subject)
);

CREATE TABLE IF NOT EXISTS {{bookmarks}} (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL REFERENCES {{users}}(id),
	law_id     TEXT NOT NULL,
	law_type   TEXT NOT NULL CHECK (law_type IN ('prec', 'statute')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at TIMESTAMPTZ
);

CREATE UNIQUE INDEX IF NOT EXISTS {{prefix}}bookmarks_active_key
	ON {{bookmarks}} (user_id, law_id, law_type)
	WHERE deleted_at IS NULL;

CREATE INDEX IF NOT EXISTS {{prefix}}bookmarks_user_recent
	ON {{bookmarks}} (user_id, law_type, created_at DESC)
	WHERE deleted_at IS NULL;
`

// Migrate creates missing tables and indexes. It is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, renderSchema(tables)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// DropAll removes every table of the prefix.
func DropAll(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	query := fmt.Sprintf(`
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
	`, tables.Bookmarks, tables.OAuthIdentities, tables.Users)
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}

func renderSchema(tables *TableNames) string {
	return strings.NewReplacer(
		"{{users}}", tables.Users,
		"{{oauth_identities}}", tables.OAuthIdentities,
		"{{bookmarks}}", tables.Bookmarks,
		"{{prefix}}", tables.Prefix,
	).Replace(schemaSQL)
}
