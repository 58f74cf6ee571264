package blacklist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists blacklist entries in the blacklisted_refresh_tokens
// table (see migrations). Only the token fingerprint is written; the raw
// token never reaches the database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Add(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	// ON CONFLICT DO NOTHING makes duplicate inserts idempotent under
	// concurrent revocations of the same token.
	const q = `
		INSERT INTO blacklisted_refresh_tokens (token_hash, user_id, expired_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO NOTHING`

	if _, err := s.pool.Exec(ctx, q, Fingerprint(token), userID, expiresAt); err != nil {
		return fmt.Errorf("blacklist: failed to add entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM blacklisted_refresh_tokens WHERE token_hash = $1)`

	var exists bool
	if err := s.pool.QueryRow(ctx, q, Fingerprint(token)).Scan(&exists); err != nil {
		return false, fmt.Errorf("blacklist: failed to check entry: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `DELETE FROM blacklisted_refresh_tokens WHERE expired_at < $1`

	tag, err := s.pool.Exec(ctx, q, now)
	if err != nil {
		return 0, fmt.Errorf("blacklist: failed to delete expired entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Store = (*PostgresStore)(nil)
