package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/resumake/authkit/pkg/blacklist"
	"github.com/resumake/authkit/pkg/jwt"
	"github.com/resumake/authkit/pkg/logger"
)

// TokenManager drives the refresh-token state machine: issued → rotated or
// revoked → blacklisted. A refresh token presented to Refresh or Revoke is
// blacklisted and can never be accepted by either operation again.
type TokenManager struct {
	codec     *jwt.Service
	users     UserStore
	blacklist blacklist.Store
	transport Transport
	log       *slog.Logger

	accessTTL  time.Duration
	refreshTTL time.Duration
}

// TokenManagerOption configures a TokenManager during construction.
type TokenManagerOption func(*TokenManager)

// WithTokenTTLs overrides the default access (30m) and refresh (7d) token
// lifetimes.
func WithTokenTTLs(access, refresh time.Duration) TokenManagerOption {
	return func(m *TokenManager) {
		m.accessTTL = access
		m.refreshTTL = refresh
	}
}

// WithTokenLogger configures the logger for the token manager.
func WithTokenLogger(log *slog.Logger) TokenManagerOption {
	return func(m *TokenManager) {
		m.log = log
	}
}

// NewTokenManager constructs a token lifecycle manager.
func NewTokenManager(codec *jwt.Service, users UserStore, bl blacklist.Store, transport Transport, opts ...TokenManagerOption) *TokenManager {
	m := &TokenManager{
		codec:      codec,
		users:      users,
		blacklist:  bl,
		transport:  transport,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		accessTTL:  30 * time.Minute,
		refreshTTL: 7 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Transport returns the refresh-token transport the manager writes through,
// so the HTTP layer can resolve inbound tokens the same way.
func (m *TokenManager) Transport() Transport {
	return m.transport
}

// Issue signs a fresh access/refresh pair for the user and hands the refresh
// token to the transport. The cookie max-age is derived from the token's own
// expiry rather than a fixed constant, so a late write still expires at the
// right wall-clock time.
func (m *TokenManager) Issue(ctx context.Context, w http.ResponseWriter, user *User) (*Session, error) {
	access, err := m.codec.Sign(user.ID.String(), user.emailOrName(), jwt.KindAccess, m.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := m.codec.Sign(user.ID.String(), user.emailOrName(), jwt.KindRefresh, m.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	expiresAt, err := m.codec.ExpiresAt(refresh)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh token expiry: %w", err)
	}
	m.transport.SetToken(w, refresh, time.Until(expiresAt))

	metricTokensIssued.Inc()
	return &Session{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh rotates a refresh token: validates it, issues a new pair, and
// blacklists the old token so it can never be used again. The blacklist is
// consulted before signature verification so a replayed token is reported as
// blacklisted even after it expires.
func (m *TokenManager) Refresh(ctx context.Context, w http.ResponseWriter, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, ErrTokenInvalid
	}

	blacklisted, err := m.blacklist.IsBlacklisted(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		metricReplaysBlocked.Inc()
		m.log.WarnContext(ctx, "blacklisted refresh token presented", logger.Component("tokens"))
		return nil, ErrTokenBlacklisted
	}

	claims, err := m.verifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := m.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	session, err := m.Issue(ctx, w, user)
	if err != nil {
		return nil, err
	}

	// One-time use: the consumed token joins the blacklist until its own
	// expiry, after which the sweep drops the entry.
	if err := m.blacklist.Add(ctx, refreshToken, userID, claims.ExpiresAt.Time); err != nil {
		return nil, fmt.Errorf("failed to blacklist rotated token: %w", err)
	}

	metricTokensRefreshed.Inc()
	m.log.InfoContext(ctx, "refresh token rotated", logger.UserID(userID), logger.Component("tokens"))
	return session, nil
}

// Revoke terminates the session behind a refresh token. The transport is
// cleared before anything else so logout looks identical to the client no
// matter what was presented; invalid, expired, or already-revoked tokens all
// produce the same silent no-op. The subject is returned on success so the
// caller can run best-effort provider-side logout.
func (m *TokenManager) Revoke(ctx context.Context, w http.ResponseWriter, refreshToken string) (uuid.UUID, bool) {
	m.transport.ClearToken(w)

	if refreshToken == "" {
		return uuid.Nil, false
	}

	blacklisted, err := m.blacklist.IsBlacklisted(ctx, refreshToken)
	if err != nil {
		m.log.ErrorContext(ctx, "failed to check blacklist during logout", logger.Error(err), logger.Component("tokens"))
		return uuid.Nil, false
	}
	if blacklisted {
		return uuid.Nil, false
	}

	claims, err := m.verifyRefresh(refreshToken)
	if err != nil {
		// Deliberately silent: logout must not reveal whether a malformed
		// token belonged to a real session.
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, false
	}

	if err := m.blacklist.Add(ctx, refreshToken, userID, claims.ExpiresAt.Time); err != nil {
		m.log.ErrorContext(ctx, "failed to blacklist revoked token", logger.Error(err), logger.UserID(userID), logger.Component("tokens"))
		return uuid.Nil, false
	}

	metricTokensRevoked.Inc()
	m.log.InfoContext(ctx, "refresh token revoked", logger.UserID(userID), logger.Component("tokens"))
	return userID, true
}

// Cleanup removes blacklist entries whose tokens have expired on their own.
func (m *TokenManager) Cleanup(ctx context.Context) (int64, error) {
	removed, err := m.blacklist.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep blacklist: %w", err)
	}
	metricBlacklistSwept.Add(float64(removed))
	return removed, nil
}

// RunCleanup sweeps the blacklist on the given interval until ctx is done.
// Meant to be run as a goroutine from the service entry point.
func (m *TokenManager) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := m.Cleanup(ctx)
			if err != nil {
				m.log.ErrorContext(ctx, "blacklist cleanup failed", logger.Error(err), logger.Component("tokens"))
				continue
			}
			m.log.InfoContext(ctx, "blacklist cleanup finished", slog.Int64("removed", removed), logger.Component("tokens"))
		}
	}
}

// verifyRefresh checks signature, expiry, and token kind, mapping codec
// errors onto the package taxonomy.
func (m *TokenManager) verifyRefresh(refreshToken string) (*jwt.Claims, error) {
	claims, err := m.codec.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	// Kind is checked as a first-class step: an access token is never
	// accepted where a refresh token is required.
	if claims.TokenType != jwt.KindRefresh {
		return nil, ErrTokenInvalid
	}
	if claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
