package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidConnectionString = errors.New("pg: invalid connection string")
	ErrNotReady                = errors.New("pg: database did not become ready")
	ErrHealthcheckFailed       = errors.New("pg: healthcheck failed")
	ErrMigrationFailed         = errors.New("pg: failed to apply migrations")
)

// IsNotFoundError detects pgx.ErrNoRows so callers can map it to their own
// not-found sentinel.
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError detects unique constraint violations (SQLSTATE 23505),
// used by upserts racing on (provider, provider_id).
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
