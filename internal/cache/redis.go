package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/tourbooking/config"
	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds package details for the booking hot path. Availability
// is never cached here: remaining capacity must always reflect committed
// occupancy in the primary store.
type RedisCache struct {
	client     *redis.Client
	packageTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, packageTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		packageTTL: packageTTL,
	}
}

func (c *RedisCache) GetPackage(ctx context.Context, id int64) (*domain.Package, error) {
	data, err := c.client.Get(ctx, packageKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var pkg domain.Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (c *RedisCache) SetPackage(ctx context.Context, pkg *domain.Package) error {
	payload, err := json.Marshal(pkg)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, packageKey(pkg.ID), payload, c.packageTTL).Err()
}

func packageKey(id int64) string {
	return fmt.Sprintf("cache:package:%d", id)
}
