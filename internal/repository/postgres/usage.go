package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"leasedoc/internal/domain/repositories"
)

// PostgresUsageRepository implements the UsageRepository interface
type PostgresUsageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(config *RepositoryConfig) repositories.UsageRepository {
	return &PostgresUsageRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Increment adds one generation to the owner's counter for period.
// The upsert takes a row lock, so the returned count is exact even when the
// same owner generates concurrently.
func (r *PostgresUsageRepository) Increment(ctx context.Context, ownerID, period string) (int, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, period, generations)
		VALUES ($1, $2, 1)
		ON CONFLICT (owner_id, period)
		DO UPDATE SET generations = %s.generations + 1, updated_at = now()
		RETURNING generations
	`, r.tables.Usage, r.tables.Usage)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, ownerID, period).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment usage: %w", err)
	}
	return count, nil
}

// Get returns the owner's count for period
func (r *PostgresUsageRepository) Get(ctx context.Context, ownerID, period string) (int, error) {
	query := fmt.Sprintf(`
		SELECT generations
		FROM %s
		WHERE owner_id = $1 AND period = $2
	`, r.tables.Usage)

	var count int
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, ownerID, period).Scan(&count)
	if err != nil {
		if isPgNoRowsError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get usage: %w", err)
	}
	return count, nil
}
