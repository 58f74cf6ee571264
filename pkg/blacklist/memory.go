package blacklist

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	userID    uuid.UUID
	expiredAt time.Time
}

// MemoryStore is a mutex-guarded in-process blacklist for tests and
// single-instance development setups.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Add(_ context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	fp := Fingerprint(token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[fp]; exists {
		return nil
	}
	s.entries[fp] = memoryEntry{userID: userID, expiredAt: expiresAt}
	return nil
}

func (s *MemoryStore) IsBlacklisted(_ context.Context, token string) (bool, error) {
	fp := Fingerprint(token)

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.entries[fp]
	return exists, nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for fp, entry := range s.entries {
		if entry.expiredAt.Before(now) {
			delete(s.entries, fp)
			removed++
		}
	}
	return removed, nil
}

var _ Store = (*MemoryStore)(nil)
