package token

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist remembers revoked token ids until they would have expired anyway.
// Without redis, revocation is a no-op and tokens stay valid until expiry.
type Denylist struct {
	rdb *redis.Client
}

func NewDenylist(rdb *redis.Client) *Denylist {
	return &Denylist{rdb: rdb}
}

func denyKey(id string) string {
	return fmt.Sprintf("auth:revoked:%s", id)
}

func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if d == nil || d.rdb == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, denyKey(tokenID), "1", ttl).Err()
}

func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if d == nil || d.rdb == nil || tokenID == "" {
		return false, nil
	}
	n, err := d.rdb.Exists(ctx, denyKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
