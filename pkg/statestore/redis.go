package statestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// statePrefix namespaces pending-login keys in a shared Redis database.
const statePrefix = "oauth:state:"

// RedisStore keeps pending states in Redis so any instance behind a load
// balancer can consume a state created by another. Single-use consumption is
// guaranteed by GETDEL, which reads and removes the key in one command.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed state store. Pass ttl <= 0 to use
// DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, codeChallenge string) (string, error) {
	state, err := newState()
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, statePrefix+state, codeChallenge, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("statestore: failed to store state: %w", err)
	}
	return state, nil
}

func (s *RedisStore) Consume(ctx context.Context, state string) (string, error) {
	challenge, err := s.client.GetDel(ctx, statePrefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrStateNotFound
		}
		return "", fmt.Errorf("statestore: failed to consume state: %w", err)
	}
	return challenge, nil
}

var _ Store = (*RedisStore)(nil)
