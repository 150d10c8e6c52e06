package folder

import "github.com/gin-gonic/gin"

// RegisterRoutes 注册文件夹路由
func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	folders := rg.Group("/folders")
	{
		folders.POST("", h.Create)
		folders.GET("", h.List)
		folders.GET("/:id", h.Get)
		folders.PUT("/:id", h.Update)
	}
}
