package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/resumake/authkit/pkg/auth"
)

// envelope is the uniform response shape: data on success, a stable
// machine-readable code plus a human message on failure.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Infrastructure details stay in the logs.
		message = "internal error"
	}
	writeJSON(w, status, envelope{Success: false, Error: &errorBody{Code: code, Message: message}})
}

func respondBadRequest(w http.ResponseWriter, code, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Error: &errorBody{Code: code, Message: message}})
}

// classify maps domain errors onto HTTP statuses and stable error codes.
// Clients branch on the code, never on the message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidRedirectURI):
		return http.StatusBadRequest, "INVALID_REDIRECT_URI"
	case errors.Is(err, auth.ErrInvalidState):
		return http.StatusUnauthorized, "INVALID_STATE"
	case errors.Is(err, auth.ErrInvalidCodeVerifier):
		return http.StatusUnauthorized, "INVALID_CODE_VERIFIER"
	case errors.Is(err, auth.ErrTokenExchangeFailed):
		return http.StatusBadGateway, "TOKEN_EXCHANGE_FAILED"
	case errors.Is(err, auth.ErrProfileFetchFailed):
		return http.StatusBadGateway, "PROFILE_FETCH_FAILED"
	case errors.Is(err, auth.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE"
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "TOKEN_EXPIRED"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return http.StatusUnauthorized, "TOKEN_BLACKLISTED"
	case errors.Is(err, auth.ErrTokenInvalid):
		return http.StatusUnauthorized, "INVALID_TOKEN"
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusUnauthorized, "USER_NOT_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
