package core

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore is a Redis-backed implementation of the Memory interface.
// It gives cart snapshots and session state a life beyond the process,
// and lets the same customer state follow them across devices.
type RedisStore struct {
	client    *redis.Client
	namespace string
	logger    Logger
}

// RedisStoreOptions configures the Redis store
type RedisStoreOptions struct {
	RedisURL  string
	Namespace string // Key namespace, defaults to "agrokart"
	Logger    Logger // Optional logger
}

// NewRedisStore creates a Redis-backed Memory store and verifies the
// connection with a short ping.
func NewRedisStore(opts RedisStoreOptions) (*RedisStore, error) {
	if opts.RedisURL == "" {
		return nil, fmt.Errorf("redis URL is required: %w", ErrMissingConfiguration)
	}

	redisOpt, err := redis.ParseURL(opts.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", ErrInvalidConfiguration)
	}

	client := redis.NewClient(redisOpt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	store := &RedisStore{
		client:    client,
		namespace: opts.Namespace,
		logger:    opts.Logger,
	}
	if store.namespace == "" {
		store.namespace = "agrokart"
	}
	if store.logger == nil {
		store.logger = &NoOpLogger{}
	}

	store.logger.Info("Redis store connected", map[string]interface{}{
		"namespace": store.namespace,
	})
	return store, nil
}

func (r *RedisStore) key(key string) string {
	return fmt.Sprintf("%s:%s", r.namespace, key)
}

// Get retrieves a value. A missing key returns an empty string, not an
// error, matching the MemoryStore contract.
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set stores a value with optional TTL
func (r *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes a value
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Exists reports whether a value is present
func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}
	return n > 0, nil
}

// Close releases the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
