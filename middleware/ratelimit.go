package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ariebrainware/onco-intake/config"
	"github.com/ariebrainware/onco-intake/util"
	"github.com/gin-gonic/gin"
	cache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const (
	// Rate limiting defaults
	defaultRateLimit  = 5                // 5 attempts
	defaultRateWindow = 15 * time.Minute // per 15 minutes
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// OnLimit writes the rejection. Defaults to a 429 JSON envelope.
	OnLimit gin.HandlerFunc
}

// localCounter counts attempts in-process when Redis is not configured.
type localCounter struct {
	mu     sync.Mutex
	items  *cache.Cache
	window time.Duration
}

func newLocalCounter(window time.Duration) *localCounter {
	return &localCounter{items: cache.New(window, window), window: window}
}

func (l *localCounter) incr(key string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, err := l.items.IncrementInt64(key, 1)
	if err != nil {
		l.items.Set(key, int64(1), l.window)
		return 1
	}
	return n
}

// RateLimiter creates a rate limiting middleware
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultRateLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultRateWindow
	}
	if cfg.OnLimit == nil {
		cfg.OnLimit = func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, util.APIResponse{
				Success: false,
				Error:   "rate limit exceeded",
				Msg:     "Too many requests. Please try again later.",
				Data:    map[string]interface{}{},
			})
		}
	}
	local := newLocalCounter(cfg.Window)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		endpoint := c.Request.URL.Path
		key := rateLimitKey(endpoint, clientIP)

		allowed, err := checkRateLimit(c.Request.Context(), key, cfg.Limit, cfg.Window, local)
		if err != nil {
			// Fail open when Redis is unreachable.
			util.LogSecurityEvent(util.SecurityEvent{
				EventType: util.EventSuspiciousActivity,
				IP:        clientIP,
				Message:   fmt.Sprintf("Rate limit check failed: %v", err),
			})
			c.Next()
			return
		}

		if !allowed {
			util.LogRateLimitExceeded(clientIP, endpoint)
			cfg.OnLimit(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

func rateLimitKey(endpoint, clientIP string) string {
	return fmt.Sprintf("ratelimit:%s:%s", endpoint, clientIP)
}

// checkRateLimit checks if a request is within rate limits
// Returns true if allowed, false if rate limit exceeded
func checkRateLimit(ctx context.Context, key string, limit int, window time.Duration, local *localCounter) (bool, error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return local.incr(key) <= int64(limit), nil
	}

	pipe := rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)

	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return incrCmd.Val() <= int64(limit), nil
}

// ResetRateLimit resets the Redis rate limit for a client and endpoint.
func ResetRateLimit(ctx context.Context, clientIP, endpoint string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return fmt.Errorf("redis not available")
	}
	return rdb.Del(ctx, rateLimitKey(endpoint, clientIP)).Err()
}
