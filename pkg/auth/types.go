package auth

import (
	"time"

	"github.com/google/uuid"
)

// ProviderKakao is the provider tag stored on users created through the
// Kakao login flow.
const ProviderKakao = "kakao"

// RefreshTokenName is the cookie name (and JSON field) the refresh token
// travels under.
const RefreshTokenName = "refreshToken"

// User is the local identity record created on first successful login.
// (Provider, ProviderID) is unique; ID never changes once created. Name
// follows the provider's current value on every login, Email is only filled
// in when previously absent.
type User struct {
	ID         uuid.UUID
	Provider   string
	ProviderID string
	Email      string
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// emailOrName is the claim carried in tokens so access-token consumers can
// label the principal without a lookup. Kakao accounts may withhold email.
func (u *User) emailOrName() string {
	if u.Email != "" {
		return u.Email
	}
	return u.Name
}

// Profile is the validated subset of the provider's userinfo response.
type Profile struct {
	// ID is the provider-scoped external user id, canonicalized to a string.
	ID string
	// Nickname is the display name; may be empty.
	Nickname string
	// Email may be empty when the user withheld consent.
	Email string
}

// Session is the outcome of a successful login or refresh: the resolved user
// plus a fresh token pair.
type Session struct {
	User         *User
	AccessToken  string
	RefreshToken string
}
