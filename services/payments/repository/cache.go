package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/piresc/ramein/internal/pkg/constants"
	"github.com/piresc/ramein/internal/pkg/database"
	"github.com/piresc/ramein/internal/pkg/models"
)

// releaseLockScript deletes the lock only while it still carries the caller's token
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CacheRepo keeps order locks, the stats cache and rate counters in Redis
type CacheRepo struct {
	redisClient *database.RedisClient
	newToken    func() string
}

func NewCacheRepository(redisClient *database.RedisClient) *CacheRepo {
	return &CacheRepo{
		redisClient: redisClient,
		newToken:    uuid.NewString,
	}
}

// AcquireOrderLock returns the owner token, or ok=false when another worker
// holds the lock
func (r *CacheRepo) AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (string, bool, error) {
	key := fmt.Sprintf(constants.KeyPaymentOrderLock, orderID)
	token := r.newToken()
	ok, err := r.redisClient.Client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire order lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// ReleaseOrderLock is a no-op once the lock has expired or passed to another owner
func (r *CacheRepo) ReleaseOrderLock(ctx context.Context, orderID, token string) error {
	key := fmt.Sprintf(constants.KeyPaymentOrderLock, orderID)
	if err := releaseLockScript.Run(ctx, r.redisClient.Client, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release order lock: %w", err)
	}
	return nil
}

// GetStats returns nil without error on a cache miss
func (r *CacheRepo) GetStats(ctx context.Context) (*models.TransactionStats, error) {
	val, err := r.redisClient.Client.Get(ctx, constants.KeyPaymentStats).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached stats: %w", err)
	}

	var stats models.TransactionStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil, fmt.Errorf("failed to decode cached stats: %w", err)
	}
	return &stats, nil
}

func (r *CacheRepo) SetStats(ctx context.Context, stats *models.TransactionStats, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	if err := r.redisClient.Client.Set(ctx, constants.KeyPaymentStats, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache stats: %w", err)
	}
	return nil
}

func (r *CacheRepo) InvalidateStats(ctx context.Context) error {
	if err := r.redisClient.Client.Del(ctx, constants.KeyPaymentStats).Err(); err != nil {
		return fmt.Errorf("failed to invalidate stats: %w", err)
	}
	return nil
}

// AllowCreate counts creation attempts of a user in a fixed window
func (r *CacheRepo) AllowCreate(ctx context.Context, userID uuid.UUID, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	key := fmt.Sprintf(constants.KeyPaymentCreateRate, userID.String())

	// the window is set before the first count so the key always expires
	if err := r.redisClient.Client.SetNX(ctx, key, 0, window).Err(); err != nil {
		return false, fmt.Errorf("failed to open rate window: %w", err)
	}
	count, err := r.redisClient.Client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count create attempts: %w", err)
	}
	return count <= int64(limit), nil
}
