package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"myspace/storage-api/config"
)

// InitRedis 初始化 Redis 连接。仅分块上传会话依赖 Redis，
// 连接失败由调用方决定是否降级。
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 6379
	}
	poolSize := cfg.PoolSize
	if poolSize == 0 {
		poolSize = 10
	}

	options := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		DB:       cfg.DB,
		PoolSize: poolSize,
	}
	if cfg.Password != "" {
		options.Password = cfg.Password
	}

	client := redis.NewClient(options)

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}

	return client, nil
}
