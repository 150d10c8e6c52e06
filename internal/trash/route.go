package trash

import "github.com/gin-gonic/gin"

// RegisterRoutes 注册回收站路由
func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	trash := rg.Group("/trash")
	{
		trash.GET("", h.List)
		trash.GET("/count", h.Count)
		trash.POST("/:id/restore", h.Restore)
		trash.DELETE("/:id", h.Purge)
		trash.DELETE("", h.PurgeAll)
	}
}
