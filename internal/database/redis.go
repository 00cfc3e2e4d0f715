package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shikhar1verma/chat-contract-pdf/internal/config"
)

// InitRedis 建立Redis连接（可选组件，用于限流计数）
func InitRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		DB:   cfg.DB,
	})

	// 测试连接
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}

// CloseRedis 关闭Redis连接
func CloseRedis(rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}
	return rdb.Close()
}
