package handler_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumake/authkit/handler"
	"github.com/resumake/authkit/pkg/auth"
	"github.com/resumake/authkit/pkg/blacklist"
	"github.com/resumake/authkit/pkg/cookie"
	"github.com/resumake/authkit/pkg/jwt"
	"github.com/resumake/authkit/pkg/statestore"
)

const testRedirectURI = "http://localhost:3000/callback"

// stubProvider stands in for Kakao: every code exchanges cleanly and maps to
// the same external profile.
type stubProvider struct{}

func (stubProvider) Name() string { return auth.ProviderKakao }

func (stubProvider) AuthURL(state, codeChallenge, redirectURI string) string {
	return "https://kauth.example.com/oauth/authorize?state=" + state
}

func (stubProvider) Exchange(_ context.Context, code, codeVerifier, redirectURI string) (string, error) {
	return "provider-token", nil
}

func (stubProvider) FetchProfile(_ context.Context, accessToken string) (*auth.Profile, error) {
	return &auth.Profile{ID: "42", Nickname: "Ann", Email: "ann@example.com"}, nil
}

func (stubProvider) Logout(_ context.Context, providerID string) error { return nil }

type response struct {
	Success bool `json:"success"`
	Data    struct {
		LoginURL     string `json:"loginUrl"`
		State        string `json:"state"`
		UserID       string `json:"userId"`
		Email        string `json:"email"`
		Nickname     string `json:"nickname"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, useCookie bool) http.Handler {
	t.Helper()

	codec, err := jwt.New([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	states := statestore.NewMemoryStore(time.Minute)
	t.Cleanup(states.Close)

	var transport auth.Transport = auth.NewBodyTransport()
	if useCookie {
		transport = auth.NewCookieTransport(cookie.New())
	}

	users := auth.NewMemoryUserStore()
	tokens := auth.NewTokenManager(codec, users, blacklist.NewMemoryStore(), transport)
	svc := auth.NewService(stubProvider{}, states, users, tokens, []string{testRedirectURI})

	return handler.NewAuthHandler(svc).Routes()
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return w, resp
}

// beginLogin drives the authorize leg and returns the issued state.
func beginLogin(t *testing.T, router http.Handler, challenge string) string {
	t.Helper()

	target := fmt.Sprintf("/auth/kakao/url?redirect_uri=%s&code_challenge=%s", testRedirectURI, challenge)
	w, resp := doJSON(t, router, http.MethodGet, target, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, resp.Data.State)
	return resp.Data.State
}

func challengeFor(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func loginBody(state, verifier string) map[string]string {
	return map[string]string{
		"code":         "code-1",
		"state":        state,
		"codeVerifier": verifier,
		"redirectUri":  testRedirectURI,
	}
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.RefreshTokenName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", auth.RefreshTokenName)
	return nil
}

func TestLoginURL(t *testing.T) {
	t.Parallel()

	t.Run("issues state and login url", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, false)
		target := fmt.Sprintf("/auth/kakao/url?redirect_uri=%s&code_challenge=%s", testRedirectURI, challengeFor("v"))
		w, resp := doJSON(t, router, http.MethodGet, target, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		assert.Contains(t, resp.Data.LoginURL, "state="+resp.Data.State)
	})

	t.Run("requires both parameters", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, false)
		w, resp := doJSON(t, router, http.MethodGet, "/auth/kakao/url?redirect_uri="+testRedirectURI, nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "MISSING_PARAMETER", resp.Error.Code)
	})

	t.Run("rejects unlisted redirect uri", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, false)
		target := "/auth/kakao/url?redirect_uri=http://evil.example.com/cb&code_challenge=" + challengeFor("v")
		w, resp := doJSON(t, router, http.MethodGet, target, nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_REDIRECT_URI", resp.Error.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("body mode returns the refresh token inline", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, false)
		state := beginLogin(t, router, challengeFor("verifier-abc"))

		w, resp := doJSON(t, router, http.MethodPost, "/auth/kakao/login", loginBody(state, "verifier-abc"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, "ann@example.com", resp.Data.Email)
		assert.Equal(t, "Ann", resp.Data.Nickname)
		assert.NotEmpty(t, resp.Data.UserID)
		assert.NotEmpty(t, resp.Data.AccessToken)
		assert.NotEmpty(t, resp.Data.RefreshToken)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("cookie mode keeps the refresh token out of the body", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, true)
		state := beginLogin(t, router, challengeFor("verifier-abc"))

		w, resp := doJSON(t, router, http.MethodPost, "/auth/kakao/login", loginBody(state, "verifier-abc"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, resp.Data.RefreshToken)

		c := refreshCookie(t, w)
		assert.NotEmpty(t, c.Value)
		assert.True(t, c.HttpOnly)
	})

	t.Run("state cannot be replayed", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, false)
		state := beginLogin(t, router, challengeFor("verifier-abc"))

		w, _ := doJSON(t, router, http.MethodPost, "/auth/kakao/login", loginBody(state, "verifier-abc"))
		require.Equal(t, http.StatusOK, w.Code)

		w, resp := doJSON(t, router, http.MethodPost, "/auth/kakao/login", loginBody(state, "verifier-abc"))
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_STATE", resp.Error.Code)
	})

	t.Run("wrong verifier is rejected", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, false)
		state := beginLogin(t, router, challengeFor("verifier-abc"))

		w, resp := doJSON(t, router, http.MethodPost, "/auth/kakao/login", loginBody(state, "verifier-abd"))
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_CODE_VERIFIER", resp.Error.Code)
	})

	t.Run("rejects incomplete body", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, false)
		w, resp := doJSON(t, router, http.MethodPost, "/auth/kakao/login", map[string]string{"code": "code-1"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "MISSING_PARAMETER", resp.Error.Code)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("rotates token from body", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, false)
		state := beginLogin(t, router, challengeFor("verifier-abc"))
		_, login := doJSON(t, router, http.MethodPost, "/auth/kakao/login", loginBody(state, "verifier-abc"))

		w, resp := doJSON(t, router, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": login.Data.RefreshToken})
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, resp.Data.RefreshToken)
		assert.NotEqual(t, login.Data.RefreshToken, resp.Data.RefreshToken)

		// The consumed token is blocked from then on.
		w, resp = doJSON(t, router, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": login.Data.RefreshToken})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "TOKEN_BLACKLISTED", resp.Error.Code)
	})

	t.Run("rotates token from cookie", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, true)
		state := beginLogin(t, router, challengeFor("verifier-abc"))
		loginRec, _ := doJSON(t, router, http.MethodPost, "/auth/kakao/login", loginBody(state, "verifier-abc"))
		old := refreshCookie(t, loginRec)

		w, resp := doJSON(t, router, http.MethodPost, "/auth/refresh", nil, old)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, resp.Data.AccessToken)
		assert.Empty(t, resp.Data.RefreshToken)

		rotated := refreshCookie(t, w)
		assert.NotEqual(t, old.Value, rotated.Value)
	})

	t.Run("missing token is invalid", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, false)
		w, resp := doJSON(t, router, http.MethodPost, "/auth/refresh", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_TOKEN", resp.Error.Code)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	t.Run("revokes the session and clears the cookie", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, true)
		state := beginLogin(t, router, challengeFor("verifier-abc"))
		loginRec, _ := doJSON(t, router, http.MethodPost, "/auth/kakao/login", loginBody(state, "verifier-abc"))
		c := refreshCookie(t, loginRec)

		w, resp := doJSON(t, router, http.MethodPost, "/auth/logout", nil, c)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, -1, refreshCookie(t, w).MaxAge)

		// The revoked token can no longer refresh.
		w, errResp := doJSON(t, router, http.MethodPost, "/auth/refresh", nil, c)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.NotNil(t, errResp.Error)
		assert.Equal(t, "TOKEN_BLACKLISTED", errResp.Error.Code)
	})

	t.Run("succeeds for garbage tokens", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, false)
		w, resp := doJSON(t, router, http.MethodPost, "/auth/logout", map[string]string{"refreshToken": "garbage"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
	})
}
