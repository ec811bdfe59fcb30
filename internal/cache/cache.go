package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"piata/internal/config"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache — кэш публичного каталога поверх redis. Значения хранятся как JSON.
type Cache struct {
	Db *redis.Client
}

func InitServer(ctx context.Context, cfg *config.Config) (*Cache, error) {
	const op = "cache.InitServer"

	dbNum, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		dbNum = 0
	}

	db := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       dbNum,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Db.Set(ctx, key, jsonData, expiration).Err()
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	return c.Db.Del(ctx, keys...).Err()
}
