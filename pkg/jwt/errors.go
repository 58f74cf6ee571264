package jwt

import "errors"

var (
	ErrKeyTooShort    = errors.New("jwt: signing key must be at least 32 bytes")
	ErrMissingSubject = errors.New("jwt: missing subject")
	ErrSigningFailed  = errors.New("jwt: failed to sign token")
	ErrTokenInvalid   = errors.New("jwt: invalid token")
	ErrTokenExpired   = errors.New("jwt: token expired")
)
