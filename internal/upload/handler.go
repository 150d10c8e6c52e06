// Package upload 大文件分片上传。
// 会话状态放在 redis（24 小时过期），分片落在本地临时目录，
// complete 时合并分片并走生命周期引擎的上传路径，与普通上传共享同一套补偿逻辑。
package upload

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"myspace/storage-api/config"
	"myspace/storage-api/internal/lifecycle"
	"myspace/storage-api/internal/middleware"
	"myspace/storage-api/internal/response"
)

const (
	sessionKeyPrefix = "upload:session:"
	chunksKeyPrefix  = "upload:chunks:"
	sessionTTL       = 24 * time.Hour
)

type Handler struct {
	rdb     *redis.Client
	engine  *lifecycle.Service
	storage *config.StorageConfig
	logger  *zap.Logger
}

func NewHandler(rdb *redis.Client, engine *lifecycle.Service, storage *config.StorageConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{rdb: rdb, engine: engine, storage: storage, logger: logger}
}

// available redis 未配置时分片上传整体不可用
func (h *Handler) available(c *gin.Context) bool {
	if h.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, response.ErrorBody{
			Error:   "服务暂不可用",
			Details: "分片上传依赖 redis，当前未配置",
		})
		return false
	}
	return true
}

type initRequest struct {
	FolderID    uint   `json:"folder_id" binding:"required"`
	FileName    string `json:"file_name" binding:"required,max=255"`
	FileSize    int64  `json:"file_size" binding:"required,min=1"`
	FileType    string `json:"file_type"`
	TotalChunks int    `json:"total_chunks" binding:"required,min=1"`
}

// Init 创建上传会话
func (h *Handler) Init(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var req initRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorResponse(c, err)
		return
	}
	if req.FileSize > h.storage.MaxUploadSize {
		response.Error(c, response.NewValidationError("文件超过单文件大小限制"))
		return
	}

	userID := middleware.CurrentUserID(c)
	uploadID := uuid.NewString()

	if err := os.MkdirAll(h.chunkDir(uploadID), 0o750); err != nil {
		response.Error(c, response.NewStorageError("创建分片目录失败", err))
		return
	}

	ctx := c.Request.Context()
	key := sessionKeyPrefix + uploadID
	err := h.rdb.HSet(ctx, key, map[string]any{
		"user_id":      userID,
		"folder_id":    req.FolderID,
		"file_name":    req.FileName,
		"file_size":    req.FileSize,
		"file_type":    req.FileType,
		"total_chunks": req.TotalChunks,
	}).Err()
	if err != nil {
		response.Error(c, response.NewStorageError("创建上传会话失败", err))
		return
	}
	h.rdb.Expire(ctx, key, sessionTTL)

	response.Created(c, gin.H{"upload_id": uploadID})
}

// Chunk 接收单个分片
func (h *Handler) Chunk(c *gin.Context) {
	if !h.available(c) {
		return
	}

	uploadID := c.PostForm("upload_id")
	chunkIndex, err := strconv.Atoi(c.PostForm("chunk_index"))
	if uploadID == "" || err != nil || chunkIndex < 0 {
		response.Error(c, response.NewValidationError("分片参数无效"))
		return
	}

	ctx := c.Request.Context()
	session, bizErr := h.loadSession(c, uploadID)
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	if chunkIndex >= session.TotalChunks {
		response.Error(c, response.NewValidationError("分片序号超出范围"))
		return
	}

	fh, err := c.FormFile("chunk")
	if err != nil {
		response.Error(c, response.NewValidationError("缺少分片内容"))
		return
	}
	if err := c.SaveUploadedFile(fh, h.chunkPath(uploadID, chunkIndex)); err != nil {
		response.Error(c, response.NewStorageError("保存分片失败", err))
		return
	}

	chunksKey := chunksKeyPrefix + uploadID
	h.rdb.SAdd(ctx, chunksKey, chunkIndex)
	h.rdb.Expire(ctx, chunksKey, sessionTTL)

	received, _ := h.rdb.SCard(ctx, chunksKey).Result()
	response.OK(c, gin.H{
		"received": received,
		"total":    session.TotalChunks,
	})
}

type completeRequest struct {
	UploadID string `json:"upload_id" binding:"required"`
}

// Complete 合并分片并经生命周期引擎入库
func (h *Handler) Complete(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorResponse(c, err)
		return
	}

	ctx := c.Request.Context()
	session, bizErr := h.loadSession(c, req.UploadID)
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}

	received, err := h.rdb.SCard(ctx, chunksKeyPrefix+req.UploadID).Result()
	if err != nil {
		response.Error(c, response.NewStorageError("查询分片状态失败", err))
		return
	}
	if int(received) != session.TotalChunks {
		response.Error(c, response.NewValidationError(
			fmt.Sprintf("分片不完整: 已收到 %d/%d", received, session.TotalChunks)))
		return
	}

	// 1. 按序合并分片到临时文件
	mergedPath := filepath.Join(h.chunkDir(req.UploadID), "merged")
	if bizErr := h.mergeChunks(req.UploadID, session.TotalChunks, mergedPath); bizErr != nil {
		response.Error(c, bizErr)
		return
	}

	// 2. 走引擎上传路径，获得与普通上传相同的校验与补偿
	merged, err := os.Open(mergedPath)
	if err != nil {
		response.Error(c, response.NewStorageError("打开合并文件失败", err))
		return
	}
	f, bizErr := h.engine.CreateFromUpload(session.UserID, session.FolderID, merged, session.FileName, session.FileType)
	merged.Close()
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}

	// 3. 清理会话与分片目录，失败只记日志
	h.cleanup(c, req.UploadID)

	response.Created(c, f)
}

type session struct {
	UserID      uint
	FolderID    uint
	FileName    string
	FileType    string
	TotalChunks int
}

// loadSession 读取会话并校验归属
func (h *Handler) loadSession(c *gin.Context, uploadID string) (*session, *response.BusinessError) {
	ctx := c.Request.Context()
	fields, err := h.rdb.HGetAll(ctx, sessionKeyPrefix+uploadID).Result()
	if err != nil {
		return nil, response.NewStorageError("读取上传会话失败", err)
	}
	if len(fields) == 0 {
		return nil, response.NewNotFoundError("上传会话不存在或已过期")
	}

	userID, _ := strconv.ParseUint(fields["user_id"], 10, 32)
	if uint(userID) != middleware.CurrentUserID(c) {
		// 归属不符与不存在不可区分
		return nil, response.NewNotFoundError("上传会话不存在或已过期")
	}

	folderID, _ := strconv.ParseUint(fields["folder_id"], 10, 32)
	totalChunks, _ := strconv.Atoi(fields["total_chunks"])
	return &session{
		UserID:      uint(userID),
		FolderID:    uint(folderID),
		FileName:    fields["file_name"],
		FileType:    fields["file_type"],
		TotalChunks: totalChunks,
	}, nil
}

func (h *Handler) mergeChunks(uploadID string, totalChunks int, mergedPath string) *response.BusinessError {
	out, err := os.Create(mergedPath)
	if err != nil {
		return response.NewStorageError("创建合并文件失败", err)
	}
	defer out.Close()

	for i := 0; i < totalChunks; i++ {
		chunk, err := os.Open(h.chunkPath(uploadID, i))
		if err != nil {
			return response.NewStorageError(fmt.Sprintf("分片 %d 缺失", i), err)
		}
		_, err = out.ReadFrom(chunk)
		chunk.Close()
		if err != nil {
			return response.NewStorageError(fmt.Sprintf("合并分片 %d 失败", i), err)
		}
	}
	return nil
}

func (h *Handler) cleanup(c *gin.Context, uploadID string) {
	ctx := c.Request.Context()
	if err := h.rdb.Del(ctx, sessionKeyPrefix+uploadID, chunksKeyPrefix+uploadID).Err(); err != nil {
		h.logger.Warn("清理上传会话失败", zap.String("upload_id", uploadID), zap.Error(err))
	}
	if err := os.RemoveAll(h.chunkDir(uploadID)); err != nil {
		h.logger.Warn("清理分片目录失败", zap.String("upload_id", uploadID), zap.Error(err))
	}
}

func (h *Handler) chunkDir(uploadID string) string {
	return filepath.Join(os.TempDir(), "myspace_chunks", uploadID)
}

func (h *Handler) chunkPath(uploadID string, index int) string {
	return filepath.Join(h.chunkDir(uploadID), strconv.Itoa(index))
}
