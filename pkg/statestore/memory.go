package statestore

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryStore keeps pending states in an in-process TTL cache. Suitable for
// single-instance deployments and tests; use RedisStore when the callback may
// land on a different instance than the one that created the state.
type MemoryStore struct {
	mu    sync.Mutex
	cache *ttlcache.Cache[string, string]
}

// NewMemoryStore creates a memory-backed state store. Pass ttl <= 0 to use
// DefaultTTL. Call Close when done to stop the expiration janitor.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	cache := ttlcache.New(
		ttlcache.WithTTL[string, string](ttl),
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go cache.Start()

	return &MemoryStore{cache: cache}
}

func (s *MemoryStore) Create(_ context.Context, codeChallenge string) (string, error) {
	state, err := newState()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(state, codeChallenge, ttlcache.DefaultTTL)
	return state, nil
}

func (s *MemoryStore) Consume(_ context.Context, state string) (string, error) {
	// Lookup and delete must be one critical section, otherwise two
	// concurrent callbacks could both observe the state as present.
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.cache.Get(state)
	if item == nil {
		return "", ErrStateNotFound
	}
	s.cache.Delete(state)
	return item.Value(), nil
}

// Close stops the background expiration loop.
func (s *MemoryStore) Close() {
	s.cache.Stop()
}

var _ Store = (*MemoryStore)(nil)
