package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resumake/authkit/pkg/pg"
)

// PostgresUserStore persists users in the users table (see migrations).
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

const userColumns = `id, provider, provider_id, email, name, created_at, updated_at`

func (s *PostgresUserStore) ByID(ctx context.Context, id uuid.UUID) (*User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return s.scanUser(s.pool.QueryRow(ctx, q, id))
}

func (s *PostgresUserStore) ByProvider(ctx context.Context, provider, providerID string) (*User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE provider = $1 AND provider_id = $2`, userColumns)
	return s.scanUser(s.pool.QueryRow(ctx, q, provider, providerID))
}

func (s *PostgresUserStore) Upsert(ctx context.Context, provider, providerID, name, email string) (*User, error) {
	// Single statement so two first logins racing on the same provider
	// account converge on one row. COALESCE(NULLIF(...)) keeps an existing
	// email when the provider stops sharing it.
	q := fmt.Sprintf(`
		INSERT INTO users (id, provider, provider_id, email, name)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		ON CONFLICT (provider, provider_id) DO UPDATE SET
			name       = EXCLUDED.name,
			email      = COALESCE(users.email, EXCLUDED.email),
			updated_at = now()
		RETURNING %s`, userColumns)

	return s.scanUser(s.pool.QueryRow(ctx, q, uuid.New(), provider, providerID, email, name))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresUserStore) scanUser(row rowScanner) (*User, error) {
	var (
		user  User
		email *string
	)
	err := row.Scan(&user.ID, &user.Provider, &user.ProviderID, &email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("auth: failed to load user: %w", err)
	}
	if email != nil {
		user.Email = *email
	}
	return &user, nil
}

var _ UserStore = (*PostgresUserStore)(nil)
