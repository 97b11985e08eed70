package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// SchemaSQL renders the schema for a table prefix
func SchemaSQL(prefix string) string {
	return strings.ReplaceAll(schemaSQL, "{{prefix}}", prefix)
}

// DropSQL renders the statements that remove every table of a prefix
func DropSQL(tables *TableNames) string {
	return fmt.Sprintf(`
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
	`, tables.Usage, tables.Documents)
}

// Migrate creates the tables of prefix if they do not exist.
// The schema is applied in one transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool, prefix string) error {
	return execInTx(ctx, pool, SchemaSQL(prefix))
}

// Drop removes the tables of prefix and their data
func Drop(ctx context.Context, pool *pgxpool.Pool, prefix string) error {
	return execInTx(ctx, pool, DropSQL(NewTableNames(prefix)))
}

func execInTx(ctx context.Context, pool *pgxpool.Pool, sql string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// no arguments: pgx sends this with the simple protocol, which allows several statements
	if _, err := tx.Exec(ctx, sql); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
