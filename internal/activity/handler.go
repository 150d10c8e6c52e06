package activity

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"myspace/storage-api/internal/middleware"
	"myspace/storage-api/internal/response"
)

type Handler struct {
	recorder *Recorder
}

func NewHandler(recorder *Recorder) *Handler {
	return &Handler{recorder: recorder}
}

// List 最近动态列表
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	activities, err := h.recorder.ListByUser(middleware.CurrentUserID(c), limit)
	if err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.OK(c, activities)
}

// ClearAll 清空动态
func (h *Handler) ClearAll(c *gin.Context) {
	if err := h.recorder.ClearByUser(middleware.CurrentUserID(c)); err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.OK(c, gin.H{"cleared": true})
}

// RegisterRoutes 注册动态路由
func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	activities := rg.Group("/activities")
	{
		activities.GET("", h.List)
		activities.DELETE("/clearAll", h.ClearAll)
	}
}
