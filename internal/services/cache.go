package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mindwell-app/mindwell-backend/internal/database"
)

// ErrCacheMiss is returned when a key is not in the cache.
var ErrCacheMiss = errors.New("cache miss")

// CacheSet stores a JSON-encoded value with a TTL.
func CacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return database.RedisClient.Set(ctx, key, data, ttl).Err()
}

// CacheGet fetches and decodes a JSON value. Returns ErrCacheMiss when absent.
func CacheGet(ctx context.Context, key string, dest interface{}) error {
	data, err := database.RedisClient.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// CacheDelete removes a cached key.
func CacheDelete(ctx context.Context, key string) error {
	return database.RedisClient.Del(ctx, key).Err()
}
