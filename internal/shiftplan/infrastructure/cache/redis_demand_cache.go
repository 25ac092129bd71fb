package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/orbita/internal/shiftplan/application/queries"
)

// RedisDemandCache implements queries.DemandCache. Effective demand is
// cheap to recompute but read on every inspection of a day, so entries are
// kept short-lived rather than invalidated explicitly: a stale read is at
// worst a few minutes behind an override edit.
type RedisDemandCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDemandCache(client *redis.Client, ttl time.Duration) *RedisDemandCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisDemandCache{client: client, ttl: ttl}
}

func (c *RedisDemandCache) key(date time.Time) string {
	return fmt.Sprintf("shiftplan:demand:%s", date.Format("2006-01-02"))
}

func (c *RedisDemandCache) Get(ctx context.Context, date time.Time) (queries.EffectiveDemandResult, bool, error) {
	raw, err := c.client.Get(ctx, c.key(date)).Bytes()
	if err == redis.Nil {
		return queries.EffectiveDemandResult{}, false, nil
	}
	if err != nil {
		return queries.EffectiveDemandResult{}, false, fmt.Errorf("demand cache get: %w", err)
	}

	var result queries.EffectiveDemandResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return queries.EffectiveDemandResult{}, false, fmt.Errorf("demand cache decode: %w", err)
	}
	return result, true, nil
}

func (c *RedisDemandCache) Set(ctx context.Context, date time.Time, result queries.EffectiveDemandResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("demand cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(date), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("demand cache set: %w", err)
	}
	return nil
}
