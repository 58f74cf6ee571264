package auth

import "context"

// Provider is the outbound contract with the external identity provider.
// All implementations bound their calls with a timeout and retry only
// transient failures; a definitive 4xx rejection is never retried.
type Provider interface {
	// Name returns the provider tag recorded on users ("kakao").
	Name() string

	// AuthURL composes the provider's authorize URL carrying the given state
	// and PKCE challenge (S256).
	AuthURL(state, codeChallenge, redirectURI string) string

	// Exchange swaps the authorization code for a provider access token.
	// Returns ErrTokenExchangeFailed on provider rejection and
	// ErrProviderUnavailable when retries are exhausted.
	Exchange(ctx context.Context, code, codeVerifier, redirectURI string) (string, error)

	// FetchProfile resolves the provider profile behind an access token.
	// Returns ErrProfileFetchFailed when the required id field is missing
	// or not numeric.
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)

	// Logout terminates the provider-side session for the external user.
	// Best effort: callers log failures and move on.
	Logout(ctx context.Context, providerID string) error
}
