// Package auth implements OAuth login with PKCE and the JWT session
// lifecycle built on top of it.
//
// The package is split along two seams. Service owns the login flow: it
// validates the redirect target against a fixed allow-list, creates a
// single-use state bound to the client's PKCE challenge, and on callback
// consumes the state, proves verifier possession, exchanges the code with
// the identity provider, and upserts the local user. TokenManager owns
// everything after login: issuing access/refresh pairs, rotating refresh
// tokens with strict one-time use, revoking sessions, and sweeping the
// blacklist of consumed tokens.
//
// Both collaborate through small interfaces. Provider abstracts the
// identity provider (KakaoProvider is the production implementation),
// UserStore the identity records, and Transport how the refresh token
// travels to the client. Cookie and body transports are interchangeable at
// wiring time:
//
//	codec, _ := jwt.New([]byte(cfg.SigningKey))
//	tokens := auth.NewTokenManager(codec, users, blacklist,
//		auth.NewCookieTransport(cookie.New()))
//	svc := auth.NewService(provider, states, users, tokens, cfg.AllowedRedirectURIs)
//
// A refresh token presented to Refresh or Revoke is fingerprinted into the
// blacklist and never accepted again, so a stolen token races its owner for
// a single use.
package auth
