// Package session wires fiber's cookie-backed sessions to Redis and exposes
// the current-identity and flash-message helpers handlers use.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hearth/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces session keys in Redis.
const keyPrefix = "sess:"

// RedisStorage implements fiber.Storage on top of go-redis so sessions
// survive process restarts and are shared across replicas.
type RedisStorage struct {
	rdb *redis.Client
}

// NewRedisStorage connects to Redis at addr (host:port or redis:// URL) and
// returns a session storage, or nil when Redis is unreachable so the caller
// can fall back to fiber's in-memory storage.
func NewRedisStorage(addr string) *RedisStorage {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			middleware.Logger.Warn("invalid REDIS_URL, using in-memory sessions", slog.String("error", err.Error()))
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unavailable, using in-memory sessions", slog.String("error", err.Error()))
		return nil
	}

	middleware.Logger.Info("Redis session storage connected")
	return &RedisStorage{rdb: rdb}
}

// NewRedisStorageFromClient wraps an existing client; used by tests with
// miniredis.
func NewRedisStorageFromClient(rdb *redis.Client) *RedisStorage {
	return &RedisStorage{rdb: rdb}
}

// Client exposes the underlying Redis client for components that share the
// connection, like the rate limiter.
func (s *RedisStorage) Client() *redis.Client {
	if s == nil {
		return nil
	}
	return s.rdb
}

// Get retrieves a session payload. A missing key returns (nil, nil) as the
// fiber.Storage contract requires.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	val, err := s.rdb.Get(context.Background(), keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		middleware.RedisErrors.WithLabelValues("get").Inc()
		return nil, err
	}
	return val, nil
}

// Set stores a session payload with the given expiration.
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if err := s.rdb.Set(context.Background(), keyPrefix+key, val, exp).Err(); err != nil {
		middleware.RedisErrors.WithLabelValues("set").Inc()
		return err
	}
	return nil
}

// Delete removes a session payload.
func (s *RedisStorage) Delete(key string) error {
	if err := s.rdb.Del(context.Background(), keyPrefix+key).Err(); err != nil {
		middleware.RedisErrors.WithLabelValues("del").Inc()
		return err
	}
	return nil
}

// Reset removes every stored session.
func (s *RedisStorage) Reset() error {
	ctx := context.Background()
	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		middleware.RedisErrors.WithLabelValues("scan").Inc()
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// Close releases the Redis connection.
func (s *RedisStorage) Close() error {
	return s.rdb.Close()
}
