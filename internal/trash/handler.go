// Package trash 回收站接口：列表、计数、恢复、单项清除与清空
package trash

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"myspace/storage-api/internal/lifecycle"
	"myspace/storage-api/internal/middleware"
	"myspace/storage-api/internal/response"
)

type Handler struct {
	engine *lifecycle.Service
	repo   *lifecycle.TrashRepository
}

func NewHandler(engine *lifecycle.Service, repo *lifecycle.TrashRepository) *Handler {
	return &Handler{engine: engine, repo: repo}
}

// List 列出回收站内容
func (h *Handler) List(c *gin.Context) {
	items, err := h.repo.ListByUser(middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.OK(c, items)
}

// Count 回收站项目数
func (h *Handler) Count(c *gin.Context) {
	count, err := h.repo.CountByUser(middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.OK(c, gin.H{"count": count})
}

// Restore 恢复到原路径与原 ID
func (h *Handler) Restore(c *gin.Context) {
	trashID, err := parseID(c)
	if err != nil {
		response.Error(c, response.NewValidationError("回收站项目 ID 无效"))
		return
	}

	f, bizErr := h.engine.Restore(middleware.CurrentUserID(c), trashID)
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, f)
}

// Purge 永久删除单个项目
func (h *Handler) Purge(c *gin.Context) {
	trashID, err := parseID(c)
	if err != nil {
		response.Error(c, response.NewValidationError("回收站项目 ID 无效"))
		return
	}

	if bizErr := h.engine.PurgeOne(middleware.CurrentUserID(c), trashID); bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, gin.H{"purged": true})
}

// PurgeAll 清空回收站。部分失败返回 207，结果里带每个失败项的明细。
func (h *Handler) PurgeAll(c *gin.Context) {
	result, bizErr := h.engine.PurgeAll(middleware.CurrentUserID(c))
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}

	if len(result.Errors) > 0 {
		c.JSON(http.StatusMultiStatus, result)
		return
	}
	response.OK(c, result)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
