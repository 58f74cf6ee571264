package blacklist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Store records refresh tokens that were rotated or revoked. A fingerprint
// present in the store is never valid for refresh again.
type Store interface {
	// Add blacklists a token until expiresAt. Adding an already-present
	// fingerprint is a no-op so concurrent revocations of the same token
	// cannot fail either caller.
	Add(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error

	// IsBlacklisted reports whether the token's fingerprint is on record.
	IsBlacklisted(ctx context.Context, token string) (bool, error)

	// DeleteExpired removes entries whose retention window has passed and
	// returns how many were removed. Safe to run concurrently with reads and
	// writes: an entry is only removed once the token it shadows would have
	// expired on its own.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Fingerprint derives the storage key for a token: a SHA-256 digest of its
// exact wire form, hex encoded. Storing the digest instead of the raw token
// means read access to the blacklist cannot be used to replay sessions, and
// hashing the exact bytes means no case or whitespace variant maps to the
// same entry.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
