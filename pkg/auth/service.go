package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/resumake/authkit/pkg/logger"
	"github.com/resumake/authkit/pkg/statestore"
)

// Service orchestrates the OAuth login flow: state + PKCE validation, code
// exchange, profile resolution, user upsert, and token issuance through the
// TokenManager.
type Service struct {
	provider Provider
	states   statestore.Store
	users    UserStore
	tokens   *TokenManager
	log      *slog.Logger

	allowedRedirects []string
}

// ServiceOption configures a Service during construction.
type ServiceOption func(*Service)

// WithServiceLogger configures the logger for the login service.
func WithServiceLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService constructs the login orchestrator. allowedRedirects is the
// fixed redirect-URI allow-list; matching is exact.
func NewService(provider Provider, states statestore.Store, users UserStore, tokens *TokenManager, allowedRedirects []string, opts ...ServiceOption) *Service {
	s := &Service{
		provider:         provider,
		states:           states,
		users:            users,
		tokens:           tokens,
		log:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		allowedRedirects: allowedRedirects,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tokens exposes the token manager for the refresh and logout endpoints.
func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

// LoginURL validates the redirect target, creates a single-use state bound
// to the client's PKCE challenge, and composes the provider authorize URL.
// The allow-list is checked before any state exists, so an untrusted
// redirect target never leaves traces in the store.
func (s *Service) LoginURL(ctx context.Context, redirectURI, codeChallenge string) (url, state string, err error) {
	if !slices.Contains(s.allowedRedirects, redirectURI) {
		return "", "", ErrInvalidRedirectURI
	}

	state, err = s.states.Create(ctx, codeChallenge)
	if err != nil {
		return "", "", fmt.Errorf("failed to create login state: %w", err)
	}

	return s.provider.AuthURL(state, codeChallenge, redirectURI), state, nil
}

// CompleteLogin finishes the callback leg: consumes the state (single use),
// proves possession of the PKCE verifier, exchanges the code, resolves the
// provider profile, upserts the local user, and issues a token pair.
func (s *Service) CompleteLogin(ctx context.Context, w http.ResponseWriter, code, state, codeVerifier, redirectURI string) (*Session, error) {
	challenge, err := s.states.Consume(ctx, state)
	if err != nil {
		if errors.Is(err, statestore.ErrStateNotFound) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("failed to consume login state: %w", err)
	}

	if !verifyPKCE(codeVerifier, challenge) {
		s.log.WarnContext(ctx, "pkce verification failed", logger.Component("login"))
		return nil, ErrInvalidCodeVerifier
	}

	providerToken, err := s.provider.Exchange(ctx, code, codeVerifier, redirectURI)
	if err != nil {
		return nil, err
	}
	if providerToken == "" {
		return nil, ErrTokenExchangeFailed
	}

	profile, err := s.provider.FetchProfile(ctx, providerToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Upsert(ctx, s.provider.Name(), profile.ID, profile.Nickname, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	session, err := s.tokens.Issue(ctx, w, user)
	if err != nil {
		return nil, err
	}

	metricLogins.Inc()
	s.log.InfoContext(ctx, "login completed",
		logger.UserID(user.ID),
		logger.Provider(s.provider.Name()),
		logger.Component("login"),
	)
	return session, nil
}

// Logout revokes the session locally and then attempts provider-side logout
// as a best effort. Local logout always succeeds regardless of upstream
// state; provider failures are logged and swallowed.
func (s *Service) Logout(ctx context.Context, w http.ResponseWriter, refreshToken string) {
	userID, ok := s.tokens.Revoke(ctx, w, refreshToken)
	if !ok {
		return
	}

	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		s.log.WarnContext(ctx, "failed to load user for provider logout", logger.Error(err), logger.UserID(userID))
		return
	}
	if user.Provider != s.provider.Name() || user.ProviderID == "" {
		return
	}

	if err := s.provider.Logout(ctx, user.ProviderID); err != nil {
		s.log.WarnContext(ctx, "provider logout failed",
			logger.Error(err),
			logger.UserID(userID),
			logger.Provider(s.provider.Name()),
		)
	}
}

// verifyPKCE recomputes the S256 challenge from the client's verifier and
// compares it in constant time against the challenge committed at login
// start.
func verifyPKCE(codeVerifier, storedChallenge string) bool {
	sum := sha256.Sum256([]byte(codeVerifier))
	computed := base64.RawURLEncoding.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedChallenge)) == 1
}
