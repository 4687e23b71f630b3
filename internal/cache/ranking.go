// Package cache 活动排名快照缓存。
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"EventHub/internal/config"
	"EventHub/internal/interfaces"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "eventhub:ranking:"

// RankingKey 活动排名快照的 key
func RankingKey(eventID uint64) string {
	return fmt.Sprintf("%s%d", keyPrefix, eventID)
}

// RedisRankingCache 以 JSON 快照形式保存完整排名
type RedisRankingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRankingCache(rdb *redis.Client, ttl time.Duration) *RedisRankingCache {
	return &RedisRankingCache{rdb: rdb, ttl: ttl}
}

func (c *RedisRankingCache) Get(ctx context.Context, eventID uint64) ([]byte, bool, error) {
	payload, err := c.rdb.Get(ctx, RankingKey(eventID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (c *RedisRankingCache) Set(ctx context.Context, eventID uint64, payload []byte) error {
	return c.rdb.Set(ctx, RankingKey(eventID), payload, c.ttl).Err()
}

func (c *RedisRankingCache) Invalidate(ctx context.Context, eventID uint64) error {
	return c.rdb.Del(ctx, RankingKey(eventID)).Err()
}

// Noop 未配置 Redis 时使用，始终未命中
type Noop struct{}

func (Noop) Get(context.Context, uint64) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, uint64, []byte) error         { return nil }
func (Noop) Invalidate(context.Context, uint64) error          { return nil }

// New 根据配置创建缓存；Address 为空或连接失败时返回 Noop，返回的 close 函数总是可调用
func New(ctx context.Context, cfg config.RedisConfig, logger *logrus.Logger) (interfaces.RankingCache, func() error) {
	if cfg.Address == "" {
		logger.Info("未配置Redis，排名缓存已禁用")
		return Noop{}, func() error { return nil }
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 使用Ping命令来测试连接是否成功
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).WithField("address", cfg.Address).Warn("无法连接到Redis，排名缓存已禁用")
		_ = rdb.Close()
		return Noop{}, func() error { return nil }
	}

	logger.WithField("address", cfg.Address).Info("Redis 连接成功")
	return NewRedisRankingCache(rdb, cfg.TTL), rdb.Close
}
