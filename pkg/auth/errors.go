package auth

import "errors"

// Login flow errors.
var (
	ErrInvalidRedirectURI  = errors.New("auth: redirect uri is not allowed")
	ErrInvalidState        = errors.New("auth: invalid or expired state")
	ErrInvalidCodeVerifier = errors.New("auth: pkce verification failed")
	ErrTokenExchangeFailed = errors.New("auth: provider token exchange failed")
	ErrProfileFetchFailed  = errors.New("auth: provider profile fetch failed")
	ErrProviderUnavailable = errors.New("auth: provider unavailable")
)

// Token lifecycle errors.
var (
	ErrTokenInvalid     = errors.New("auth: invalid token")
	ErrTokenExpired     = errors.New("auth: token expired")
	ErrTokenBlacklisted = errors.New("auth: token is blacklisted")
	ErrUserNotFound     = errors.New("auth: user not found")
)
