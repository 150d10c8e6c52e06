package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"myspace/storage-api/config"
	"myspace/storage-api/internal/database"
	"myspace/storage-api/internal/observability"
	"myspace/storage-api/internal/route"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	// 1. 加载配置
	config.MustLoad(*configPath)
	cfg := config.Conf

	// 2. 初始化日志
	logger := observability.MustLogger(&cfg.Log)
	defer logger.Sync()

	// 3. 初始化数据库
	db, err := database.Init(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}
	logger.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))

	// 4. 初始化 redis，未启用或连接失败时分片上传降级，其余功能不受影响
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Warn("redis 连接失败，分片上传不可用", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 静态资源目录
	if err := os.MkdirAll(cfg.Storage.ResDir, 0o750); err != nil {
		log.Fatalf("创建资源目录失败: %v", err)
	}

	// 6. 组装路由并启动
	r, err := route.SetupRouter(route.Deps{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("路由初始化失败: %v", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("服务启动", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("服务启动失败: %v", err)
	}
}
