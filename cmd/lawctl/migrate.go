package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lawlow/internal/config"
	"lawlow/internal/repository/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users, oauth_identities and bookmarks tables",
	Long: `Applies the embedded schema to DATABASE_URL using the table prefix of
ENVIRONMENT (dev_, test_, none in prod). The schema is idempotent.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().Bool("reset", false, "drop all tables before applying the schema")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	reset, _ := cmd.Flags().GetBool("reset")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Destructive operations are blocked in production
	if reset && cfg.IsProduction() {
		return fmt.Errorf("--reset is not allowed when ENVIRONMENT=prod")
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if reset {
		if err := postgres.DropAll(ctx, pool, tables); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "dropped tables with prefix %q\n", cfg.TablePrefix)
	}

	if err := postgres.Migrate(ctx, pool, tables); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema applied: %s, %s, %s\n", tables.Users, tables.OAuthIdentities, tables.Bookmarks)
	return nil
}
