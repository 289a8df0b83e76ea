// Package cache is a small key/value cache with a Redis driver and an
// in-process memory driver. Values are stored JSON-encoded on both drivers
// so callers see the same decoding semantics either way.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/shashiranjanraj/schoolbar/config"
	"github.com/shashiranjanraj/schoolbar/pkg/logger"
	"github.com/shashiranjanraj/schoolbar/pkg/metrics"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is a byte-level cache backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Name() string
}

var (
	mu    sync.RWMutex
	store Store = NewMemoryStore()
)

var Ctx = context.Background()

// Connect selects the configured driver. When Redis is configured but not
// reachable the memory driver stays active and the error is returned so the
// caller can log it.
func Connect() error {
	if config.CacheDriver() == "memory" {
		Use(NewMemoryStore())
		return nil
	}

	rs, err := NewRedisStore(config.RedisAddr(), config.RedisPassword())
	if err != nil {
		Use(NewMemoryStore())
		return err
	}
	Use(rs)
	return nil
}

// Use swaps the active store.
func Use(s Store) {
	mu.Lock()
	defer mu.Unlock()
	store = s
}

func current() Store {
	mu.RLock()
	defer mu.RUnlock()
	return store
}

// Get unmarshals the cached value into dest. Returns true on a hit.
func Get(key string, dest interface{}) bool {
	s := current()
	raw, err := s.Get(Ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			logger.Warn("cache: get failed", "key", key, "error", err)
		}
		metrics.CacheMisses.WithLabelValues(s.Name()).Inc()
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		metrics.CacheMisses.WithLabelValues(s.Name()).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(s.Name()).Inc()
	return true
}

// Set stores value under key for ttl.
func Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return current().Set(Ctx, key, data, ttl)
}

// Del removes one or more keys.
func Del(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return current().Del(Ctx, keys...)
}

// Forget is an alias for Del of a single key.
func Forget(key string) error {
	return Del(key)
}
