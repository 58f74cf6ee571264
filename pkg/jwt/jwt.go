package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// minKeyLength is the minimum signing key size in bytes. HMAC-SHA256 keys
// shorter than the hash output weaken the signature, so the service refuses
// to start with anything below 32 bytes.
const minKeyLength = 32

// Kind tags a token as usable for API access or for session refresh.
// Every token carries its kind as a first-class claim so an access token can
// never be replayed against the refresh endpoint, or vice versa.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the payload carried by every token the service issues.
// Subject holds the canonical string form of the user ID; Email is carried so
// access-token consumers can skip a user lookup.
type Claims struct {
	TokenType Kind   `json:"token_type"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 tokens with a single symmetric key held
// in process memory.
type Service struct {
	signingKey []byte
}

// New creates a token service. It fails fast when the key is too short;
// key strength is a startup invariant, not a per-request concern.
func New(signingKey []byte) (*Service, error) {
	if len(signingKey) < minKeyLength {
		return nil, ErrKeyTooShort
	}
	return &Service{signingKey: signingKey}, nil
}

// Sign issues a token for the given subject, valid from now until now+ttl.
func (s *Service) Sign(subject, email string, kind Kind, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", ErrMissingSubject
	}

	now := time.Now()
	claims := Claims{
		TokenType: kind,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			// Timestamps have second precision, so without a unique id two
			// tokens signed back to back would be byte-identical. Rotation
			// depends on the new token differing from the blacklisted one.
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", errors.Join(ErrSigningFailed, err)
	}
	return token, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
// Callers can distinguish ErrTokenExpired (prompt re-login) from
// ErrTokenInvalid (tampered or malformed, reject hard).
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		// Pin the algorithm to prevent signing-method confusion.
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// KindOf extracts the declared token kind without verifying the signature.
// It only tells what the token claims to be; callers always pair it with
// Verify before trusting the result.
func (s *Service) KindOf(tokenString string) (Kind, error) {
	claims, err := s.peek(tokenString)
	if err != nil {
		return "", err
	}
	if claims.TokenType != KindAccess && claims.TokenType != KindRefresh {
		return "", ErrTokenInvalid
	}
	return claims.TokenType, nil
}

// ExpiresAt returns the declared expiry of a token. Used to derive blacklist
// retention and cookie max-age from the token's own lifetime.
func (s *Service) ExpiresAt(tokenString string) (time.Time, error) {
	claims, err := s.peek(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrTokenInvalid
	}
	return claims.ExpiresAt.Time, nil
}

func (s *Service) peek(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
