package repositories

import "context"

// UsageRepository tracks how many documents each owner generated per billing period.
// Periods are "YYYY-MM" in UTC.
type UsageRepository interface {
	// Increment adds one generation to the owner's counter for period and
	// returns the new count. Concurrent increments each see a distinct count.
	Increment(ctx context.Context, ownerID, period string) (int, error)

	// Get returns the owner's count for period, zero if none
	Get(ctx context.Context, ownerID, period string) (int, error)
}
