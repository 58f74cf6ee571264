package auth

import (
	"context"

	"github.com/google/uuid"
)

// UserStore is the persistence contract for local user records.
type UserStore interface {
	// ByID returns the user with the given id, or ErrUserNotFound.
	ByID(ctx context.Context, id uuid.UUID) (*User, error)

	// ByProvider returns the user keyed by (provider, providerID), or
	// ErrUserNotFound.
	ByProvider(ctx context.Context, provider, providerID string) (*User, error)

	// Upsert creates or updates the user keyed by (provider, providerID).
	// On update the name is overwritten unconditionally and the email is
	// filled in only when previously absent; the user id is never changed.
	Upsert(ctx context.Context, provider, providerID, name, email string) (*User, error)
}
