// Package route 组装路由与依赖
package route

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"myspace/storage-api/config"
	"myspace/storage-api/internal/activity"
	"myspace/storage-api/internal/blob"
	"myspace/storage-api/internal/file"
	"myspace/storage-api/internal/folder"
	"myspace/storage-api/internal/lifecycle"
	"myspace/storage-api/internal/middleware"
	"myspace/storage-api/internal/notification"
	"myspace/storage-api/internal/observability"
	"myspace/storage-api/internal/response"
	"myspace/storage-api/internal/trash"
	"myspace/storage-api/internal/upload"
	"myspace/storage-api/internal/user"
)

// Deps 路由装配所需的外部依赖。Redis 允许为 nil（分片上传降级为 503）。
type Deps struct {
	Config *config.AppConfig
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *zap.Logger
}

// SetupRouter 构建完整的 gin 引擎
func SetupRouter(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config
	gin.SetMode(cfg.Server.Mode)

	blobStore, err := blob.New(cfg.Storage.UploadDir, cfg.Storage.TrashDir)
	if err != nil {
		return nil, err
	}

	// 数据访问层
	fileRepo := lifecycle.NewFileRepository(deps.DB)
	trashRepo := lifecycle.NewTrashRepository(deps.DB)
	versionRepo := lifecycle.NewVersionRepository(deps.DB)
	folderRepo := folder.NewRepository(deps.DB)
	userRepo := user.NewRepository(deps.DB)
	notificationRepo := notification.NewRepository(deps.DB)
	recorder := activity.NewRecorder(deps.DB, deps.Logger)

	// 生命周期引擎
	engine := lifecycle.NewService(fileRepo, trashRepo, versionRepo, folderRepo, blobStore, recorder, deps.Logger)

	// 业务服务与处理器
	userService := user.NewService(userRepo, fileRepo, blobStore, cfg, deps.Logger)
	userHandler := user.NewHandler(userService)
	folderHandler := folder.NewHandler(folderRepo)
	fileHandler := file.NewHandler(engine, fileRepo, versionRepo, &cfg.Storage, deps.Logger)
	trashHandler := trash.NewHandler(engine, trashRepo)
	activityHandler := activity.NewHandler(recorder)
	notificationHandler := notification.NewHandler(notificationRepo)
	uploadHandler := upload.NewHandler(deps.Redis, engine, &cfg.Storage, deps.Logger)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Range"},
		ExposeHeaders:    []string{"Content-Length", "Content-Range", "Accept-Ranges"},
		AllowCredentials: true,
	}))

	// 静态资源：活跃文件、回收站与公共资源目录
	r.Static("/uploads", cfg.Storage.UploadDir)
	r.Static("/trash", cfg.Storage.TrashDir)
	r.Static("/res", cfg.Storage.ResDir)

	r.GET("/metrics", observability.MetricsHandler())
	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	user.RegisterPublicRoutes(api, userHandler)

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(deps.DB, &cfg.JWT))
	{
		user.RegisterRoutes(authed, userHandler)
		folder.RegisterRoutes(authed, folderHandler)
		file.RegisterRoutes(authed, fileHandler)
		trash.RegisterRoutes(authed, trashHandler)
		activity.RegisterRoutes(authed, activityHandler)
		notification.RegisterRoutes(authed, notificationHandler)
		upload.RegisterRoutes(authed, uploadHandler)
	}

	return r, nil
}
