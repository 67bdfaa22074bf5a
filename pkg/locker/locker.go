package locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLocked = errors.New("resource is locked")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out short lived redis mutexes keyed by name. Without a redis
// client every lock succeeds immediately.
type Locker struct {
	rdb    *redis.Client
	prefix string
}

func New(rdb *redis.Client, prefix string) *Locker {
	return &Locker{rdb: rdb, prefix: prefix}
}

// Release frees a lock obtained from Acquire.
type Release func(ctx context.Context) error

func noopRelease(context.Context) error { return nil }

// Acquire takes the lock for name, returning ErrLocked if another holder has it.
func (l *Locker) Acquire(ctx context.Context, name string, ttl time.Duration) (Release, error) {
	if l == nil || l.rdb == nil {
		return noopRelease, nil
	}

	key := fmt.Sprintf("%s:%s", l.prefix, name)
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	return func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.rdb, []string{key}, token).Err()
	}, nil
}
