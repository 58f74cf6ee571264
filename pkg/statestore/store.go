package statestore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// DefaultTTL bounds how long a pending login may sit between the authorize
// redirect and the callback.
const DefaultTTL = 10 * time.Minute

var (
	ErrStateNotFound = errors.New("statestore: state not found or already consumed")
)

// Store binds an unguessable state identifier to the PKCE code challenge the
// client committed to. Each state resolves exactly once: Consume atomically
// removes the entry, so concurrent callbacks carrying the same state cannot
// both proceed.
type Store interface {
	// Create generates a fresh state, binds it to codeChallenge for the
	// store's TTL, and returns it.
	Create(ctx context.Context, codeChallenge string) (string, error)

	// Consume atomically looks up and deletes the entry, returning the bound
	// code challenge. Returns ErrStateNotFound when the state is unknown,
	// expired, or was already consumed.
	Consume(ctx context.Context, state string) (string, error)
}

// newState returns 32 bytes of crypto/rand entropy as unpadded base64url,
// matching the opacity requirements of the OAuth state parameter.
func newState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
