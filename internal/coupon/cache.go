package coupon

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"workerbull/internal/models"
)

const cacheTTL = time.Hour

// Cache is a read-through cache in front of the coupon store. Coupons are
// immutable after creation, so a fixed TTL is enough.
type Cache struct {
	Client *redis.Client
}

func cacheKey(code string) string {
	return "coupon_code:" + code
}

// Get returns the cached coupon, or nil on miss or any cache failure.
func (c *Cache) Get(ctx context.Context, code string) *models.Coupon {
	if c == nil || c.Client == nil {
		return nil
	}
	raw, err := c.Client.Get(ctx, cacheKey(code)).Result()
	if err != nil {
		return nil
	}
	var coupon models.Coupon
	if err := json.Unmarshal([]byte(raw), &coupon); err != nil {
		return nil
	}
	return &coupon
}

// Set stores the coupon, best effort.
func (c *Cache) Set(ctx context.Context, coupon models.Coupon) {
	if c == nil || c.Client == nil {
		return
	}
	raw, err := json.Marshal(coupon)
	if err != nil {
		return
	}
	c.Client.Set(ctx, cacheKey(coupon.Code), raw, cacheTTL)
}
