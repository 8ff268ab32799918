package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lawlow/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Prefix          string
	Users           string
	OAuthIdentities string
	Bookmarks       string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Prefix:          prefix,
		Users:           fmt.Sprintf("%susers", prefix),
		OAuthIdentities: fmt.Sprintf("%soauth_identities", prefix),
		Bookmarks:       fmt.Sprintf("%sbookmarks", prefix),
	}
}

// CreateConnectionPool opens and pings a pgx pool.
//
// Direct connections keep pgx's statement cache. When the URL points at a
// transaction pooler on port 6543 the pool switches to CacheDescribe, since
// PgBouncer in transaction mode rejects prepared statements.
//
// Table prefixes (dev_, test_, none in prod) are interpolated with fmt.Sprintf
// before the SQL is sent, so each environment gets its own statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Configure pool size
	config.MaxConns = 20
	config.MinConns = 2

	// Port 6543 is the conventional PgBouncer transaction-mode port.
	// CacheDescribe keeps the extended protocol without preparing statements.
	// An explicit default_query_exec_mode in the connection string takes precedence.
	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
