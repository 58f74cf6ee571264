package auth

import (
	"net/http"
	"time"

	"github.com/resumake/authkit/pkg/cookie"
)

// Transport decides how the refresh token travels between server and client.
// Which one is wired in is a deployment choice; the token lifecycle is
// agnostic to it.
type Transport interface {
	// SetToken delivers a freshly issued refresh token to the client.
	SetToken(w http.ResponseWriter, token string, ttl time.Duration)

	// ClearToken removes the refresh token from the client.
	ClearToken(w http.ResponseWriter)

	// Token extracts the refresh token carried by the request, if the
	// transport owns inbound delivery. Returns cookie.ErrCookieNotFound
	// when nothing is present.
	Token(r *http.Request) (string, error)

	// ExposeInBody reports whether the refresh token should also appear in
	// JSON response payloads. True only for body-mode deployments.
	ExposeInBody() bool
}

// CookieTransport carries the refresh token in an HTTP-only cookie.
type CookieTransport struct {
	cookies *cookie.Manager
	name    string
}

func NewCookieTransport(cookies *cookie.Manager) *CookieTransport {
	return &CookieTransport{cookies: cookies, name: RefreshTokenName}
}

func (t *CookieTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) {
	t.cookies.Set(w, t.name, token, cookie.WithMaxAge(int(ttl.Seconds())))
}

func (t *CookieTransport) ClearToken(w http.ResponseWriter) {
	t.cookies.Delete(w, t.name)
}

func (t *CookieTransport) Token(r *http.Request) (string, error) {
	return t.cookies.Get(r, t.name)
}

func (t *CookieTransport) ExposeInBody() bool { return false }

// BodyTransport leaves delivery to the response payload: SetToken and
// ClearToken write nothing, and the client submits the refresh token in the
// request body.
type BodyTransport struct{}

func NewBodyTransport() *BodyTransport { return &BodyTransport{} }

func (t *BodyTransport) SetToken(http.ResponseWriter, string, time.Duration) {}

func (t *BodyTransport) ClearToken(http.ResponseWriter) {}

func (t *BodyTransport) Token(*http.Request) (string, error) {
	return "", cookie.ErrCookieNotFound
}

func (t *BodyTransport) ExposeInBody() bool { return true }

var (
	_ Transport = (*CookieTransport)(nil)
	_ Transport = (*BodyTransport)(nil)
)
