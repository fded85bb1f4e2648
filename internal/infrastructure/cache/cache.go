// Package cache provides the Valkey-backed response cache and the
// in-process snapshot cache used by the polling endpoints.
//
// The Valkey cache is strictly best-effort: callers treat every cache
// error as a miss and never fail a request because of it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/myfrido/analytics-backend/internal/infrastructure/config"
)

// Store is a thin JSON cache over a Valkey/Redis client.
type Store struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// New connects to the cache and verifies the connection with a short
// ping. Callers that want best-effort behavior should log the error and
// continue with a nil *Store; all Store methods are nil-safe.
func New(cfg config.CacheConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: connect %s: %w", cfg.Addr(), err)
	}

	return &Store{client: client, defaultTTL: cfg.DefaultTTL}, nil
}

// GetJSON loads and unmarshals a cached value into dest. It returns
// (false, nil) on a miss and (false, err) on a cache failure; both are
// treated identically by callers.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if s == nil {
		return false, nil
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals and stores a value with the given TTL. A zero ttl
// uses the store default.
func (s *Store) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}

// Key builds a cache key from namespaced parts, e.g.
// Key("orders", "overview", "myfrido", "2025-06-01", "2025-06-15").
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
