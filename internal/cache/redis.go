package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeepAlive Redis 条目的物理保留时间，逻辑过期仍由读取方的 ttl 决定
const redisKeepAlive = 24 * time.Hour

// RedisCache Redis 缓存后端，存储格式与文件缓存一致
type RedisCache struct {
	rdb *redis.Client
	ctx context.Context
	now func() time.Time
}

// NewRedisCache 连接 Redis 并返回缓存后端
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	return &RedisCache{rdb: rdb, ctx: ctx, now: time.Now}, nil
}

// Get 读取缓存，未命中返回 ErrMiss
func (c *RedisCache) Get(key string, ttl time.Duration, dest interface{}) error {
	raw, err := c.rdb.Get(c.ctx, key).Bytes()
	if err != nil {
		return ErrMiss
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ErrMiss
	}
	if c.now().Unix()-env.Timestamp > int64(ttl.Seconds()) {
		return ErrMiss
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return ErrMiss
	}
	return nil
}

// Set 写入缓存
func (c *RedisCache) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	env := envelope{Timestamp: c.now().Unix(), Data: data}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.rdb.Set(c.ctx, key, raw, redisKeepAlive).Err()
}

// Clear 清空当前库的所有缓存
func (c *RedisCache) Clear() error {
	return c.rdb.FlushDB(c.ctx).Err()
}

// Close 关闭 Redis 连接
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
