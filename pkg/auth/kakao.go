package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/resumake/authkit/pkg/logger"
)

// KakaoConfig holds the Kakao application credentials and endpoint settings.
// The base URLs are configurable so tests can point the provider at a stub
// server.
type KakaoConfig struct {
	ClientID     string `env:"KAKAO_CLIENT_ID,required"`
	ClientSecret string `env:"KAKAO_CLIENT_SECRET" envDefault:""`

	// AdminKey authorizes provider-side logout; when empty that call is
	// skipped.
	AdminKey string `env:"KAKAO_ADMIN_KEY" envDefault:""`

	AuthBaseURL string `env:"KAKAO_AUTH_BASE_URL" envDefault:"https://kauth.kakao.com"`
	APIBaseURL  string `env:"KAKAO_API_BASE_URL" envDefault:"https://kapi.kakao.com"`

	Timeout       time.Duration `env:"KAKAO_TIMEOUT" envDefault:"10s"`
	RetryAttempts int           `env:"KAKAO_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"KAKAO_RETRY_INTERVAL" envDefault:"1s"`
}

// KakaoProvider implements Provider against the Kakao OAuth and API hosts.
type KakaoProvider struct {
	cfg        KakaoConfig
	conf       *oauth2.Config
	httpClient *http.Client
	log        *slog.Logger
}

// KakaoOption configures a KakaoProvider during construction.
type KakaoOption func(*KakaoProvider)

// WithKakaoLogger configures the logger for the provider.
func WithKakaoLogger(log *slog.Logger) KakaoOption {
	return func(p *KakaoProvider) {
		p.log = log
	}
}

// WithKakaoHTTPClient overrides the HTTP client, mainly for tests.
func WithKakaoHTTPClient(client *http.Client) KakaoOption {
	return func(p *KakaoProvider) {
		p.httpClient = client
	}
}

// NewKakaoProvider constructs a Kakao identity-provider adapter.
func NewKakaoProvider(cfg KakaoConfig, opts ...KakaoOption) *KakaoProvider {
	p := &KakaoProvider{
		cfg: cfg,
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthBaseURL + "/oauth/authorize",
				TokenURL: cfg.AuthBaseURL + "/oauth/token",
			},
		},
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *KakaoProvider) Name() string { return ProviderKakao }

// AuthURL composes the authorize URL. The PKCE challenge comes from the
// client; the server only embeds it (S256 is the only supported method).
func (p *KakaoProvider) AuthURL(state, codeChallenge, redirectURI string) string {
	return p.conf.AuthCodeURL(state,
		oauth2.SetAuthURLParam("redirect_uri", redirectURI),
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange swaps the authorization code for a Kakao access token. Transient
// failures are retried with backoff; a 4xx rejection is definitive and
// surfaces immediately as ErrTokenExchangeFailed.
func (p *KakaoProvider) Exchange(ctx context.Context, code, codeVerifier, redirectURI string) (string, error) {
	var accessToken string

	err := p.withRetry(ctx, "token exchange", func(ctx context.Context) error {
		// Route the oauth2 transport through our client so the timeout and
		// test overrides apply.
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

		tok, err := p.conf.Exchange(ctx, code,
			oauth2.SetAuthURLParam("redirect_uri", redirectURI),
			oauth2.SetAuthURLParam("code_verifier", codeVerifier),
		)
		if err != nil {
			var rerr *oauth2.RetrieveError
			if errors.As(err, &rerr) && rerr.Response != nil && rerr.Response.StatusCode < http.StatusInternalServerError {
				return permanent(ErrTokenExchangeFailed, err)
			}
			return err
		}

		accessToken = tok.AccessToken
		return nil
	})
	if err != nil {
		return "", err
	}
	return accessToken, nil
}

// kakaoUser mirrors the /v2/user/me response shape. The nickname historically
// moved between kakao_account.nickname and kakao_account.profile.nickname, so
// both are read.
type kakaoUser struct {
	ID           json.Number `json:"id"`
	KakaoAccount struct {
		Email    string `json:"email"`
		Nickname string `json:"nickname"`
		Profile  struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// FetchProfile resolves and validates the Kakao profile behind an access
// token. The external id is required and must be numeric; everything else is
// optional.
func (p *KakaoProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	var raw kakaoUser

	err := p.withRetry(ctx, "profile fetch", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.APIBaseURL+"/v2/user/me", nil)
		if err != nil {
			return permanent(ErrProfileFetchFailed, err)
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("kakao api returned status %d", resp.StatusCode)
		case resp.StatusCode >= http.StatusBadRequest:
			return permanent(ErrProfileFetchFailed, fmt.Errorf("kakao api returned status %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return permanent(ErrProfileFetchFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The id is the upsert key; reject the payload outright when it is
	// missing or not numeric.
	if raw.ID.String() == "" {
		return nil, ErrProfileFetchFailed
	}
	if _, err := raw.ID.Int64(); err != nil {
		return nil, ErrProfileFetchFailed
	}

	nickname := raw.KakaoAccount.Profile.Nickname
	if nickname == "" {
		nickname = raw.KakaoAccount.Nickname
	}

	return &Profile{
		ID:       raw.ID.String(),
		Nickname: nickname,
		Email:    raw.KakaoAccount.Email,
	}, nil
}

// Logout unlinks the Kakao session for the external user. Requires the
// admin key; without one the call is skipped.
func (p *KakaoProvider) Logout(ctx context.Context, providerID string) error {
	if p.cfg.AdminKey == "" {
		p.log.DebugContext(ctx, "kakao admin key not configured, skipping provider logout", logger.Provider(ProviderKakao))
		return nil
	}

	form := url.Values{
		"target_id_type": {"user_id"},
		"target_id":      {providerID},
	}

	return p.withRetry(ctx, "provider logout", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIBaseURL+"/v1/user/logout", strings.NewReader(form.Encode()))
		if err != nil {
			return permanent(ErrProviderUnavailable, err)
		}
		req.Header.Set("Authorization", "KakaoAK "+p.cfg.AdminKey)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("kakao api returned status %d", resp.StatusCode)
		case resp.StatusCode >= http.StatusBadRequest:
			return permanent(ErrProviderUnavailable, fmt.Errorf("kakao api returned status %d", resp.StatusCode))
		}
		return nil
	})
}

// permanentError marks a failure that must not be retried, such as a
// definitive 4xx rejection from the provider.
type permanentError struct {
	sentinel error
	cause    error
}

func permanent(sentinel, cause error) error {
	return &permanentError{sentinel: sentinel, cause: cause}
}

func (e *permanentError) Error() string {
	return e.sentinel.Error() + ": " + e.cause.Error()
}

func (e *permanentError) Unwrap() error { return e.sentinel }

// withRetry runs fn up to RetryAttempts times with a growing delay. Each
// attempt gets its own timeout. Permanent errors and caller cancellation
// stop the loop; anything else exhausting the attempts surfaces as
// ErrProviderUnavailable.
func (p *KakaoProvider) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < p.cfg.RetryAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
		err := fn(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm
		}

		lastErr = err
		p.log.WarnContext(ctx, "kakao call failed, will retry",
			slog.String("op", op),
			slog.Int("attempt", attempt+1),
			logger.Error(err),
		)

		select {
		case <-ctx.Done():
			return errors.Join(ErrProviderUnavailable, ctx.Err())
		case <-time.After(time.Duration(attempt+1) * p.cfg.RetryInterval):
		}
	}

	return errors.Join(ErrProviderUnavailable, lastErr)
}

var _ Provider = (*KakaoProvider)(nil)
