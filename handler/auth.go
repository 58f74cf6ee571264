package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/resumake/authkit/pkg/auth"
	"github.com/resumake/authkit/pkg/cookie"
	"github.com/resumake/authkit/pkg/logger"
)

// AuthHandler exposes the login and token lifecycle over HTTP.
type AuthHandler struct {
	svc *auth.Service
	log *slog.Logger
}

// Option configures an AuthHandler during construction.
type Option func(*AuthHandler)

// WithLogger configures the logger for the handler.
func WithLogger(log *slog.Logger) Option {
	return func(h *AuthHandler) {
		h.log = log
	}
}

// NewAuthHandler constructs the HTTP surface over the login service.
func NewAuthHandler(svc *auth.Service, opts ...Option) *AuthHandler {
	h := &AuthHandler{
		svc: svc,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts the auth endpoints on a fresh router.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/auth/kakao/url", h.loginURL)
	r.Post("/auth/kakao/login", h.login)
	r.Post("/auth/refresh", h.refresh)
	r.Post("/auth/logout", h.logout)
	return r
}

type loginURLResponse struct {
	LoginURL string `json:"loginUrl"`
	State    string `json:"state"`
}

func (h *AuthHandler) loginURL(w http.ResponseWriter, r *http.Request) {
	redirectURI := r.URL.Query().Get("redirect_uri")
	codeChallenge := r.URL.Query().Get("code_challenge")
	if redirectURI == "" || codeChallenge == "" {
		respondBadRequest(w, "MISSING_PARAMETER", "redirect_uri and code_challenge are required")
		return
	}

	url, state, err := h.svc.LoginURL(r.Context(), redirectURI, codeChallenge)
	if err != nil {
		h.logFailure(r, "login url", err)
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, loginURLResponse{LoginURL: url, State: state})
}

type loginRequest struct {
	Code         string `json:"code"`
	State        string `json:"state"`
	CodeVerifier string `json:"codeVerifier"`
	RedirectURI  string `json:"redirectUri"`
}

type sessionResponse struct {
	UserID       string `json:"userId"`
	Email        string `json:"email,omitempty"`
	Nickname     string `json:"nickname,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "INVALID_BODY", "request body must be valid JSON")
		return
	}
	if req.Code == "" || req.State == "" || req.CodeVerifier == "" || req.RedirectURI == "" {
		respondBadRequest(w, "MISSING_PARAMETER", "code, state, codeVerifier, and redirectUri are required")
		return
	}

	session, err := h.svc.CompleteLogin(r.Context(), w, req.Code, req.State, req.CodeVerifier, req.RedirectURI)
	if err != nil {
		h.logFailure(r, "login", err)
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, h.sessionResponse(session))
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	token := h.refreshToken(r)

	session, err := h.svc.Tokens().Refresh(r.Context(), w, token)
	if err != nil {
		h.logFailure(r, "refresh", err)
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, h.sessionResponse(session))
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	// Logout is idempotent and always succeeds from the client's point of
	// view; the cookie is cleared no matter what was presented.
	h.svc.Logout(r.Context(), w, h.refreshToken(r))
	respondData(w, http.StatusOK, nil)
}

// refreshToken resolves the inbound refresh token: the transport first
// (cookie mode), then the JSON body (body mode). An absent token comes back
// empty and fails validation downstream.
func (h *AuthHandler) refreshToken(r *http.Request) string {
	token, err := h.svc.Tokens().Transport().Token(r)
	if err == nil && token != "" {
		return token
	}
	if err != nil && !errors.Is(err, cookie.ErrCookieNotFound) {
		h.logFailure(r, "refresh token read", err)
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

func (h *AuthHandler) sessionResponse(session *auth.Session) sessionResponse {
	resp := sessionResponse{
		UserID:      session.User.ID.String(),
		Email:       session.User.Email,
		Nickname:    session.User.Name,
		AccessToken: session.AccessToken,
	}
	if h.svc.Tokens().Transport().ExposeInBody() {
		resp.RefreshToken = session.RefreshToken
	}
	return resp
}

func (h *AuthHandler) logFailure(r *http.Request, op string, err error) {
	h.log.WarnContext(r.Context(), "auth request failed",
		slog.String("op", op),
		slog.String("path", r.URL.Path),
		logger.Error(err),
	)
}
