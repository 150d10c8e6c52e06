package file

import "github.com/gin-gonic/gin"

// RegisterRoutes 注册文件路由。
// GET /files/:id 中的 :id 是文件夹 ID（列表接口），其余路由中是文件 ID。
func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	rg.POST("/upload/:folderId", h.Upload)

	files := rg.Group("/files")
	{
		files.POST("/note", h.CreateNote)
		files.GET("/:id", h.ListByFolder)
		files.GET("/:id/view", h.View)
		files.GET("/:id/download", h.Download)
		files.PUT("/:id/pin", h.TogglePin)
		files.PUT("/:id/note", h.UpdateNote)
		files.GET("/:id/metadata", h.GetMetadata)
		files.PUT("/:id/metadata", h.UpdateMetadata)
		files.GET("/:id/lyrics", h.GetLyrics)
		files.PUT("/:id/lyrics", h.UpdateLyrics)
		files.POST("/:id/versions", h.CreateVersion)
		files.GET("/:id/versions", h.ListVersions)
		files.POST("/:id/versions/:versionId/restore", h.RestoreVersion)
		files.DELETE("/:id", h.SoftDelete)
		files.DELETE("/:id/permanent", h.HardDelete)
	}
}
