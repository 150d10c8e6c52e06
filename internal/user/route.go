package user

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes 注册无需认证的路由
func RegisterPublicRoutes(rg *gin.RouterGroup, h *Handler) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)
}

// RegisterRoutes 注册需要认证的路由
func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	rg.GET("/me", h.Me)
	rg.PUT("/profile", h.UpdateProfile)
	rg.DELETE("/profile", h.DeleteAccount)

	space := rg.Group("/space")
	{
		space.GET("/name", h.GetSpaceName)
		space.PUT("/name", h.UpdateSpaceName)
	}

	storage := rg.Group("/storage")
	{
		storage.GET("/usage", h.Usage)
		storage.GET("/limits", h.Limits)
	}
}
