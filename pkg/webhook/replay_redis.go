package webhook

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces replay keys.
const DefaultRedisPrefix = "lettermint:webhook:seen:"

// ErrReplayStoreUnavailable wraps failures of the backing store.
var ErrReplayStoreUnavailable = errors.New("webhook replay store unavailable")

// RedisReplayStore shares replay state between receiver instances.
type RedisReplayStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisReplayStore creates a store on top of an existing client.
// An empty prefix falls back to DefaultRedisPrefix.
func NewRedisReplayStore(client redis.UniversalClient, prefix string) *RedisReplayStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisReplayStore{client: client, prefix: prefix}
}

// MarkSeen implements ReplayStore with SET NX and an expiry.
func (s *RedisReplayStore) MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+key, 1, ttl).Result()
	if err != nil {
		return false, errors.Join(ErrReplayStoreUnavailable, err)
	}
	return ok, nil
}
