package upload

import "github.com/gin-gonic/gin"

// RegisterRoutes 注册分片上传路由
func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	uploads := rg.Group("/uploads")
	{
		uploads.POST("/init", h.Init)
		uploads.POST("/chunk", h.Chunk)
		uploads.POST("/complete", h.Complete)
	}
}
