package main

import (
	"errors"

	"github.com/spf13/cobra"

	"leasedoc/internal/repository/postgres"
)

var migrateDrop bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the document and usage tables for the current environment",
	Long: `Applies the embedded schema using the environment's table prefix.
With --drop the prefixed tables are dropped first (refused in prod).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.SupabaseDBURL == "" {
			return errors.New("SUPABASE_DB_URL is required")
		}
		if migrateDrop && cfg.Environment == "prod" {
			return errors.New("refusing to drop tables in the prod environment")
		}

		ctx := cmd.Context()
		pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		if migrateDrop {
			if err := postgres.Drop(ctx, pool, cfg.TablePrefix); err != nil {
				return err
			}
			logger.Warn("tables dropped", "table_prefix", cfg.TablePrefix)
		}

		if err := postgres.Migrate(ctx, pool, cfg.TablePrefix); err != nil {
			return err
		}
		logger.Info("schema applied", "environment", cfg.Environment, "table_prefix", cfg.TablePrefix)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDrop, "drop", false, "drop the prefixed tables before migrating")
	rootCmd.AddCommand(migrateCmd)
}
