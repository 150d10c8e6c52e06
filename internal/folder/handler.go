// Package folder 文件夹管理
package folder

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"myspace/storage-api/internal/middleware"
	foldermodel "myspace/storage-api/internal/model/folder"
	"myspace/storage-api/internal/response"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

type createFolderRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Type        string `json:"type" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// Create 创建文件夹
func (h *Handler) Create(c *gin.Context) {
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorResponse(c, err)
		return
	}
	if !foldermodel.IsAllowedType(req.Type) {
		response.Error(c, response.NewValidationError("不支持的文件夹类型: "+req.Type))
		return
	}

	f := &foldermodel.Folder{
		UserID:      middleware.CurrentUserID(c),
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	}
	if err := h.repo.Create(f); err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.Created(c, f)
}

// List 列出当前用户的文件夹
func (h *Handler) List(c *gin.Context) {
	folders, err := h.repo.ListByUser(middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.OK(c, folders)
}

// Get 查询单个文件夹
func (h *Handler) Get(c *gin.Context) {
	folderID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件夹 ID 无效"))
		return
	}

	f, err := h.repo.GetOwned(middleware.CurrentUserID(c), folderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, response.NewNotFoundError("文件夹不存在或无权访问"))
			return
		}
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.OK(c, f)
}

type updateFolderRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
}

// Update 更新文件夹属性（只更新请求里出现的字段）
func (h *Handler) Update(c *gin.Context) {
	folderID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件夹 ID 无效"))
		return
	}

	var req updateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorResponse(c, err)
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if len(updates) == 0 {
		response.Error(c, response.NewValidationError("没有需要更新的字段"))
		return
	}

	rows, err := h.repo.Update(middleware.CurrentUserID(c), folderID, updates)
	if err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	if rows == 0 {
		response.Error(c, response.NewNotFoundError("文件夹不存在或无权访问"))
		return
	}
	response.OK(c, gin.H{"updated": true})
}

func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
