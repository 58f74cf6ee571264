package auth

import "time"

// Config holds the token-lifecycle settings of the service. Fields are
// populated from environment variables via pkg/config.
type Config struct {
	// SigningKey is the symmetric JWT key; must be at least 32 bytes.
	SigningKey string `env:"JWT_SIGNING_KEY,required"`

	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL" envDefault:"30m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" envDefault:"168h"`

	// UseCookie selects the refresh-token transport: HTTP-only cookie when
	// true, response body when false. A deployment choice, not a code one.
	UseCookie      bool   `env:"AUTH_USE_COOKIE" envDefault:"true"`
	CookieDomain   string `env:"AUTH_COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool   `env:"AUTH_COOKIE_SECURE" envDefault:"true"`
	CookieSameSite string `env:"AUTH_COOKIE_SAME_SITE" envDefault:"lax"`

	// AllowedRedirectURIs is the fixed allow-list checked before any login
	// state is created.
	AllowedRedirectURIs []string `env:"OAUTH_ALLOWED_REDIRECT_URIS" envSeparator:"," envDefault:"http://localhost:3000/callback"`

	// StateTTL bounds the window between authorize redirect and callback.
	StateTTL time.Duration `env:"OAUTH_STATE_TTL" envDefault:"10m"`

	// CleanupInterval is how often expired blacklist entries are swept.
	CleanupInterval time.Duration `env:"BLACKLIST_CLEANUP_INTERVAL" envDefault:"24h"`
}
