package session

import (
	"context"
	"time"

	"floradmin/internal/cache"
)

const (
	// KeyToken names the durable entry holding the credential token.
	KeyToken = "token"
	// KeyUser names the durable entry holding the JSON identity.
	KeyUser = "user"

	keyPrefix = "session:"
)

// Backend is the durable storage behind the Store. Save must write all
// values atomically.
type Backend interface {
	Save(ctx context.Context, sid string, values map[string][]byte, ttl time.Duration) error
	Load(ctx context.Context, sid string) (map[string][]byte, error)
	Delete(ctx context.Context, sid string) error
}

// RedisBackend keeps sessions in Redis under session:<sid>:token and
// session:<sid>:user.
type RedisBackend struct {
	cache *cache.Client
}

// Ensure RedisBackend implements Backend
var _ Backend = (*RedisBackend)(nil)

// NewRedisBackend creates a Redis session backend.
func NewRedisBackend(cache *cache.Client) *RedisBackend {
	return &RedisBackend{cache: cache}
}

func redisKey(sid, name string) string {
	return keyPrefix + sid + ":" + name
}

// Save writes every value in one transaction with the given TTL.
func (b *RedisBackend) Save(ctx context.Context, sid string, values map[string][]byte, ttl time.Duration) error {
	entries := make(map[string][]byte, len(values))
	for name, v := range values {
		entries[redisKey(sid, name)] = v
	}
	return b.cache.SetMany(ctx, entries, ttl)
}

// Load returns the token and user entries that exist.
func (b *RedisBackend) Load(ctx context.Context, sid string) (map[string][]byte, error) {
	vals, err := b.cache.GetMany(ctx, redisKey(sid, KeyToken), redisKey(sid, KeyUser))
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, 2)
	if vals[0] != nil {
		out[KeyToken] = vals[0]
	}
	if vals[1] != nil {
		out[KeyUser] = vals[1]
	}
	return out, nil
}

// Delete removes both entries.
func (b *RedisBackend) Delete(ctx context.Context, sid string) error {
	return b.cache.Delete(ctx, redisKey(sid, KeyToken), redisKey(sid, KeyUser))
}
