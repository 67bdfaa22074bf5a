package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter enforces per-user cooldowns. A nil redis client disables it.
type Limiter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func key(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}

// Allow reserves the action for the cooldown window. It returns false when the
// user already performed it inside the window.
func (l *Limiter) Allow(ctx context.Context, userID uuid.UUID, action string, cooldown time.Duration) (bool, error) {
	if l == nil || l.rdb == nil || cooldown <= 0 {
		return true, nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(userID, action), "locked", cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func (l *Limiter) TTL(ctx context.Context, userID uuid.UUID, action string) (time.Duration, error) {
	if l == nil || l.rdb == nil {
		return 0, nil
	}
	return l.rdb.TTL(ctx, key(userID, action)).Result()
}

// Clear releases a reservation, used when the guarded action failed.
func (l *Limiter) Clear(ctx context.Context, userID uuid.UUID, action string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, key(userID, action)).Err()
}
