package auth

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of Provider. User and blacklist
// storage use the real in-memory implementations instead; only the external
// identity provider is stubbed.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) AuthURL(state, codeChallenge, redirectURI string) string {
	args := m.Called(state, codeChallenge, redirectURI)
	return args.String(0)
}

func (m *MockProvider) Exchange(ctx context.Context, code, codeVerifier, redirectURI string) (string, error) {
	args := m.Called(ctx, code, codeVerifier, redirectURI)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockProvider) Logout(ctx context.Context, providerID string) error {
	args := m.Called(ctx, providerID)
	return args.Error(0)
}
