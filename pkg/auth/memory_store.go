package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryUserStore keeps users in process memory. It backs tests and local
// development; production uses PostgresUserStore.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[uuid.UUID]*User)}
}

func (s *MemoryUserStore) ByID(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *MemoryUserStore) ByProvider(_ context.Context, provider, providerID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user := s.findByProvider(provider, providerID); user != nil {
		clone := *user
		return &clone, nil
	}
	return nil, ErrUserNotFound
}

func (s *MemoryUserStore) Upsert(_ context.Context, provider, providerID, name, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if user := s.findByProvider(provider, providerID); user != nil {
		user.Name = name
		if user.Email == "" {
			user.Email = email
		}
		user.UpdatedAt = now
		clone := *user
		return &clone, nil
	}

	user := &User{
		ID:         uuid.New(),
		Provider:   provider,
		ProviderID: providerID,
		Email:      email,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.users[user.ID] = user
	clone := *user
	return &clone, nil
}

func (s *MemoryUserStore) findByProvider(provider, providerID string) *User {
	for _, user := range s.users {
		if user.Provider == provider && user.ProviderID == providerID {
			return user
		}
	}
	return nil
}

var _ UserStore = (*MemoryUserStore)(nil)
