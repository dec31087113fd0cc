package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/catalogo/storefront-client/internal/core/ports"
)

// KVStore keeps client state in Redis so several front ends (a kiosk and a
// CLI, say) can share one session.
// Key format: <prefix>:kv:<key>
type KVStore struct {
	client     *redis.Client
	prefix     string
	ttl        time.Duration
	persistent map[string]bool
}

var _ ports.KVStore = (*KVStore)(nil)

// NewKVStore wraps client. A positive ttl makes written keys expire, which
// bounds how long a forgotten session survives. Keys listed in persistent
// (preferences) never expire.
func NewKVStore(client *redis.Client, prefix string, ttl time.Duration, persistent ...string) *KVStore {
	if prefix == "" {
		prefix = "storefront"
	}
	keep := make(map[string]bool, len(persistent))
	for _, k := range persistent {
		keep[k] = true
	}
	return &KVStore{client: client, prefix: prefix, ttl: ttl, persistent: keep}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.expiry(key)).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remove deletes all keys in one DEL round trip.
func (s *KVStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *KVStore) Close() error {
	return s.client.Close()
}

// expiry is the TTL for key; zero means no expiry.
func (s *KVStore) expiry(key string) time.Duration {
	if s.persistent[key] {
		return 0
	}
	return s.ttl
}

func (s *KVStore) key(k string) string {
	return fmt.Sprintf("%s:kv:%s", s.prefix, k)
}
