package credentials

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Persisted key names. One canonical expiry key; logout removes every key the
// login path writes, roles included.
const (
	KeyAccessToken = "access_token"
	KeyIssuedAt    = "issued_at"
	KeyExpiresAt   = "expires_at"
	KeyUser        = "user"
	KeyPermissions = "permissions"
	KeyRoles       = "roles"
)

// AllKeys lists every key the store persists.
func AllKeys() []string {
	return []string{KeyAccessToken, KeyIssuedAt, KeyExpiresAt, KeyUser, KeyPermissions, KeyRoles}
}

// Keyring is the durable string key-value capability injected into the Store.
// Get returns "" with no error for absent keys.
type Keyring interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// RedisKeyring persists one hash per session under a namespaced key.
type RedisKeyring struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisKeyring constructs a keyring bound to the given session ID.
func NewRedisKeyring(client *redis.Client, sessionID string, ttl time.Duration) *RedisKeyring {
	return &RedisKeyring{client: client, key: StateKey(sessionID), ttl: ttl}
}

// StateKey returns the Redis key holding a session's persisted auth state.
// Exposed for the sweep job, which removes state for expired sessions.
func StateKey(sessionID string) string {
	return "authstate:" + sessionID
}

// Get reads a single field from the session hash.
func (k *RedisKeyring) Get(ctx context.Context, key string) (string, error) {
	value, err := k.client.HGet(ctx, k.key, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// Set writes a field and refreshes the hash TTL.
func (k *RedisKeyring) Set(ctx context.Context, key, value string) error {
	if err := k.client.HSet(ctx, k.key, key, value).Err(); err != nil {
		return err
	}
	if k.ttl > 0 {
		return k.client.Expire(ctx, k.key, k.ttl).Err()
	}
	return nil
}

// Delete removes fields from the session hash. Redis drops the hash once the
// last field is gone.
func (k *RedisKeyring) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return k.client.HDel(ctx, k.key, keys...).Err()
}

// MemoryKeyring is an in-process keyring used in tests and as the fallback
// when no Redis client is configured.
type MemoryKeyring struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKeyring constructs an empty in-memory keyring.
func NewMemoryKeyring() *MemoryKeyring {
	return &MemoryKeyring{values: make(map[string]string)}
}

// Get returns the stored value, or "" when absent.
func (k *MemoryKeyring) Get(_ context.Context, key string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.values[key], nil
}

// Set stores a value.
func (k *MemoryKeyring) Set(_ context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.values[key] = value
	return nil
}

// Delete removes keys.
func (k *MemoryKeyring) Delete(_ context.Context, keys ...string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, key := range keys {
		delete(k.values, key)
	}
	return nil
}

var (
	_ Keyring = (*RedisKeyring)(nil)
	_ Keyring = (*MemoryKeyring)(nil)
)
