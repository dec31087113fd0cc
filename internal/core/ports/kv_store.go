package ports

import "context"

// KVStore is the durable key-value storage the session and preference state
// live in. Implementations guarantee read-after-write consistency within a
// process; there are no transactions across keys.
type KVStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes every given key. Missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error
	Close() error
}
