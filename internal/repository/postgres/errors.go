package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// isPgDuplicateError checks if error is a unique constraint violation
func isPgDuplicateError(err error) bool {
	return pgErrorCode(err) == "23505"
}

// isPgCheckViolation checks if error is a CHECK constraint violation
func isPgCheckViolation(err error) bool {
	return pgErrorCode(err) == "23514"
}

// isPgInvalidText checks if error is a malformed literal, e.g. a non-UUID id
func isPgInvalidText(err error) bool {
	return pgErrorCode(err) == "22P02"
}

// isPgNoRowsError checks if error is a "no rows" error
func isPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
