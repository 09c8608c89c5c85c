package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/utils"
)

// RateLimiterConfig contains configuration for the rate limiter
type RateLimiterConfig struct {
	RedisClient *redis.Client
	Key         string        // Key prefix for Redis
	Limit       int           // Maximum number of requests, 0 disables the limiter
	Period      time.Duration // Fixed window length
}

// RateLimiterMiddleware limits requests per client IP with a fixed window
// counter in Redis. Requests pass through when Redis is unreachable.
func RateLimiterMiddleware(config RateLimiterConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if config.Limit <= 0 || config.RedisClient == nil {
			return next
		}

		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("%s:%s:%s", config.Key, c.Path(), c.RealIP())

			count, err := incrWindow(ctx, config.RedisClient, key, config.Period)
			if err != nil {
				logger.Warn("Rate limiter unavailable, allowing request",
					logger.String("key", key),
					logger.ErrorField(err))
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Limit))
			if count > int64(config.Limit) {
				ttl := config.RedisClient.TTL(ctx, key).Val()
				if ttl < 0 {
					ttl = config.Period
				}
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				c.Response().Header().Set("Retry-After", strconv.FormatInt(int64(ttl.Seconds()), 10))
				return utils.TooManyRequestsResponse(c, "Rate limit exceeded")
			}

			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(config.Limit)-count, 10))
			return next(c)
		}
	}
}

// incrWindow bumps a fixed window counter. The key is created together with
// its expiry, so a counter can never outlive its window.
func incrWindow(ctx context.Context, client *redis.Client, key string, window time.Duration) (int64, error) {
	if err := client.SetNX(ctx, key, 0, window).Err(); err != nil {
		return 0, err
	}
	return client.Incr(ctx, key).Result()
}

// IPRateLimiter creates an IP based rate limiter
func IPRateLimiter(key string, limit int, period time.Duration, redisClient *redis.Client) echo.MiddlewareFunc {
	return RateLimiterMiddleware(RateLimiterConfig{
		RedisClient: redisClient,
		Key:         key,
		Limit:       limit,
		Period:      period,
	})
}
