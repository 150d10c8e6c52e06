package notification

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"myspace/storage-api/internal/middleware"
	"myspace/storage-api/internal/response"
)

// 可以通过接口修改的通知属性白名单
var mutableProperties = map[string]bool{
	"read":     true,
	"starred":  true,
	"archived": true,
}

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List 通知列表
func (h *Handler) List(c *gin.Context) {
	notifications, err := h.repo.ListByUser(middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.OK(c, notifications)
}

// UnreadCount 未读数量
func (h *Handler) UnreadCount(c *gin.Context) {
	count, err := h.repo.UnreadCount(middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.OK(c, gin.H{"count": count})
}

type updatePropertyRequest struct {
	Property string `json:"property" binding:"required"`
	Value    bool   `json:"value"`
}

// UpdateProperty 更新单条通知的属性
func (h *Handler) UpdateProperty(c *gin.Context) {
	notificationID, err := parseID(c)
	if err != nil {
		response.Error(c, response.NewValidationError("通知 ID 无效"))
		return
	}
	var req updatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorResponse(c, err)
		return
	}
	if !mutableProperties[req.Property] {
		response.Error(c, response.NewValidationError("不支持的通知属性: "+req.Property))
		return
	}

	rows, err := h.repo.SetProperty(middleware.CurrentUserID(c), notificationID, req.Property, req.Value)
	if err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	if rows == 0 {
		response.Error(c, response.NewNotFoundError("通知不存在或无权访问"))
		return
	}
	response.OK(c, gin.H{"updated": true})
}

// MarkAllRead 全部标为已读
func (h *Handler) MarkAllRead(c *gin.Context) {
	if err := h.repo.MarkAllRead(middleware.CurrentUserID(c)); err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.OK(c, gin.H{"updated": true})
}

// Dismiss 删除单条通知
func (h *Handler) Dismiss(c *gin.Context) {
	notificationID, err := parseID(c)
	if err != nil {
		response.Error(c, response.NewValidationError("通知 ID 无效"))
		return
	}

	rows, err := h.repo.Delete(middleware.CurrentUserID(c), notificationID)
	if err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	if rows == 0 {
		response.Error(c, response.NewNotFoundError("通知不存在或无权访问"))
		return
	}
	response.OK(c, gin.H{"dismissed": true})
}

// ClearAll 清空全部通知
func (h *Handler) ClearAll(c *gin.Context) {
	if err := h.repo.ClearByUser(middleware.CurrentUserID(c)); err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.OK(c, gin.H{"cleared": true})
}

// RegisterRoutes 注册通知路由
func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/unreadCount", h.UnreadCount)
		notifications.PUT("/markAllRead", h.MarkAllRead)
		notifications.PUT("/:id", h.UpdateProperty)
		notifications.DELETE("/clearAll", h.ClearAll)
		notifications.DELETE("/:id", h.Dismiss)
	}
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
