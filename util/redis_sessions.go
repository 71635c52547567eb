package util

import (
	"context"
	"fmt"
	"time"

	"github.com/ariebrainware/onco-intake/config"
	"github.com/redis/go-redis/v9"
)

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// CacheSession stores token -> username in Redis until the session expires.
// It is a no-op without a Redis client.
func CacheSession(ctx context.Context, token, username string, ttl time.Duration) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, sessionKey(token), username, ttl).Err()
}

// CachedSession returns the username cached for token. found is false on a
// cache miss or when Redis is not configured.
func CachedSession(ctx context.Context, token string) (username string, found bool, err error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return "", false, nil
	}
	username, err = rdb.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return username, username != "", nil
}

// EvictSession removes the cached session for token.
func EvictSession(ctx context.Context, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, sessionKey(token)).Err()
}
