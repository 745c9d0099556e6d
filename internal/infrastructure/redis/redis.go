package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/antbogura/isp-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	Client *redis.Client
}

func New(addr, pass string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr, Password: pass, DB: db,
	})
	return &Cache{Client: rdb}
}

const statsKey = "admin:intake:stats"

func (c *Cache) GetStats(ctx context.Context) (*domain.IntakeStats, error) {
	val, err := c.Client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}
	var stats domain.IntakeStats
	if err := json.Unmarshal(val, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Cache) SetStats(ctx context.Context, stats domain.IntakeStats, ttl time.Duration) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, statsKey, b, ttl).Err()
}

// AllowRequest: Simple Fixed Window Rate Limit
func (c *Cache) AllowRequest(ctx context.Context, ip string, limit int, window time.Duration) (bool, error) {
	key := "ratelimit:" + ip
	count, err := c.Client.Incr(ctx, key).Result()
	if err != nil {
		return true, nil // fail open
	}
	if count == 1 {
		_ = c.Client.Expire(ctx, key, window).Err()
	}
	return count <= int64(limit), nil
}
