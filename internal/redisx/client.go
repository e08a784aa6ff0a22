package redisx

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        addr,
		ReadTimeout: 2 * time.Second,
	})
}

// Cache is the Redis-backed read model maintained by the inventory feed.
type Cache struct{ R *redis.Client }

func (c *Cache) SetStock(ctx context.Context, productID string, stock int) error {
	return c.R.Set(ctx, fmt.Sprintf(KeyProductStock, productID), stock, 0).Err()
}

func (c *Cache) Stock(ctx context.Context, productID string) (int, error) {
	s, err := c.R.Get(ctx, fmt.Sprintf(KeyProductStock, productID)).Result()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}
