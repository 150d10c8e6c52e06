// Package file 文件相关的 HTTP 接口：上传、笔记、列表、在线播放、
// 下载、置顶、元数据、歌词、版本管理与删除。
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"myspace/storage-api/config"
	"myspace/storage-api/internal/lifecycle"
	"myspace/storage-api/internal/middleware"
	filemodel "myspace/storage-api/internal/model/file"
	"myspace/storage-api/internal/response"
)

type Handler struct {
	engine   *lifecycle.Service
	files    *lifecycle.FileRepository
	versions *lifecycle.VersionRepository
	storage  *config.StorageConfig
	logger   *zap.Logger
}

func NewHandler(
	engine *lifecycle.Service,
	files *lifecycle.FileRepository,
	versions *lifecycle.VersionRepository,
	storage *config.StorageConfig,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		engine:   engine,
		files:    files,
		versions: versions,
		storage:  storage,
		logger:   logger,
	}
}

// Upload 上传一个或多个文件到指定文件夹。
// 先整体校验配额，再逐个经生命周期引擎写入；
// 任何一个失败则把本次已创建的文件全部回滚，整批要么全成要么全败。
func (h *Handler) Upload(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	folderID, err := parseID(c, "folderId")
	if err != nil {
		response.Error(c, response.NewValidationError("文件夹 ID 无效"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, response.NewValidationError("无法解析上传表单"))
		return
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		uploads = form.File["file"]
	}
	if len(uploads) == 0 {
		response.Error(c, response.NewValidationError("没有上传任何文件"))
		return
	}

	// 1. 配额检查
	var incoming int64
	for _, fh := range uploads {
		if fh.Size > h.storage.MaxUploadSize {
			response.Error(c, response.NewValidationError(
				fmt.Sprintf("文件 %s 超过单文件大小限制", fh.Filename)))
			return
		}
		incoming += fh.Size
	}
	used, err := h.files.TotalSize(userID)
	if err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	if used+incoming > h.storage.MaxStoragePerUser {
		response.Error(c, response.NewValidationError("存储空间不足"))
		return
	}

	// 2. 逐个写入，失败则回滚本批已创建的文件
	created := make([]*filemodel.File, 0, len(uploads))
	for _, fh := range uploads {
		src, err := fh.Open()
		if err != nil {
			h.rollbackBatch(userID, created)
			response.Error(c, response.NewStorageError("读取上传内容失败", err))
			return
		}
		f, bizErr := h.engine.CreateFromUpload(userID, folderID, src, fh.Filename, fh.Header.Get("Content-Type"))
		src.Close()
		if bizErr != nil {
			h.rollbackBatch(userID, created)
			response.Error(c, bizErr)
			return
		}
		created = append(created, f)
	}

	response.Created(c, gin.H{"files": created})
}

func (h *Handler) rollbackBatch(userID uint, created []*filemodel.File) {
	for _, f := range created {
		if bizErr := h.engine.HardDelete(userID, f.ID); bizErr != nil {
			h.logger.Error("回滚批次上传失败",
				zap.Uint("file_id", f.ID),
				zap.Error(bizErr),
			)
		}
	}
}

type createNoteRequest struct {
	FolderID    uint   `json:"folder_id" binding:"required"`
	Name        string `json:"name" binding:"required,max=255"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

// CreateNote 创建笔记
func (h *Handler) CreateNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorResponse(c, err)
		return
	}

	f, bizErr := h.engine.CreateNote(middleware.CurrentUserID(c), req.FolderID, req.Name, req.Content, req.Description)
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.Created(c, f)
}

type updateNoteRequest struct {
	Content string `json:"content"`
}

// UpdateNote 更新笔记内容
func (h *Handler) UpdateNote(c *gin.Context) {
	fileID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件 ID 无效"))
		return
	}
	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorResponse(c, err)
		return
	}

	if bizErr := h.engine.UpdateNote(middleware.CurrentUserID(c), fileID, req.Content); bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, gin.H{"updated": true})
}

// 列表排序字段白名单，防止排序参数注入
var sortFields = map[string]string{
	"name":        "name",
	"size":        "size",
	"type":        "type",
	"uploaded_at": "uploaded_at",
	"updated_at":  "updated_at",
}

// ListByFolder 列出文件夹内的文件，置顶优先。
// 路径参数是文件夹 ID，排序字段与方向都走白名单。
func (h *Handler) ListByFolder(c *gin.Context) {
	folderID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件夹 ID 无效"))
		return
	}

	sortField, ok := sortFields[c.DefaultQuery("sortBy", "uploaded_at")]
	if !ok {
		response.Error(c, response.NewValidationError("不支持的排序字段"))
		return
	}
	sortDir := "DESC"
	if c.DefaultQuery("sortOrder", "desc") == "asc" {
		sortDir = "ASC"
	}

	files, err := h.files.ListByFolder(middleware.CurrentUserID(c), folderID, sortField, sortDir)
	if err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.OK(c, files)
}

// View 在线查看文件。音视频支持 Range 分段传输，其余类型返回完整内容。
func (h *Handler) View(c *gin.Context) {
	h.serve(c, false)
}

// Download 下载文件（附件形式）
func (h *Handler) Download(c *gin.Context) {
	h.serve(c, true)
}

func (h *Handler) serve(c *gin.Context, asAttachment bool) {
	fileID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件 ID 无效"))
		return
	}

	f, err := h.files.GetByID(middleware.CurrentUserID(c), fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, response.NewNotFoundError("文件不存在或无权访问"))
			return
		}
		response.Error(c, response.NewDatabaseError(err))
		return
	}

	info, err := os.Stat(f.Path)
	if err != nil {
		// 行存在但字节缺失，按不存在处理而不是崩溃
		response.Error(c, response.NewNotFoundError("文件内容不存在"))
		return
	}
	size := info.Size()

	c.Header("Content-Type", f.Type)
	if asAttachment {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	}

	if !asAttachment && lifecycle.IsStreamable(f.Type) {
		c.Header("Accept-Ranges", "bytes")
		rng, err := lifecycle.ParseRangeHeader(c.GetHeader("Range"), size)
		if err != nil {
			c.Header("Content-Range", fmt.Sprintf("bytes */%d", size))
			c.Status(http.StatusRequestedRangeNotSatisfiable)
			return
		}
		if rng != nil {
			h.servePartial(c, f.Path, rng, size)
			return
		}
	}

	c.Header("Content-Length", strconv.FormatInt(size, 10))
	c.Status(http.StatusOK)
	src, err := os.Open(f.Path)
	if err != nil {
		return
	}
	defer src.Close()
	io.Copy(c.Writer, src)
}

func (h *Handler) servePartial(c *gin.Context, path string, rng *lifecycle.ByteRange, size int64) {
	src, err := os.Open(path)
	if err != nil {
		response.Error(c, response.NewNotFoundError("文件内容不存在"))
		return
	}
	defer src.Close()

	if _, err := src.Seek(rng.Start, io.SeekStart); err != nil {
		response.Error(c, response.NewStorageError("定位文件内容失败", err))
		return
	}

	c.Header("Content-Range", rng.ContentRange(size))
	c.Header("Content-Length", strconv.FormatInt(rng.Length(), 10))
	c.Status(http.StatusPartialContent)
	io.CopyN(c.Writer, src, rng.Length())
}

// TogglePin 切换置顶状态
func (h *Handler) TogglePin(c *gin.Context) {
	fileID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件 ID 无效"))
		return
	}

	pinned, bizErr := h.engine.TogglePin(middleware.CurrentUserID(c), fileID)
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, gin.H{"pinned": pinned})
}

// GetMetadata 读取自由格式元数据
func (h *Handler) GetMetadata(c *gin.Context) {
	fileID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件 ID 无效"))
		return
	}

	f, err := h.files.GetByID(middleware.CurrentUserID(c), fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, response.NewNotFoundError("文件不存在或无权访问"))
			return
		}
		response.Error(c, response.NewDatabaseError(err))
		return
	}

	metadata := f.Metadata
	if metadata == "" {
		metadata = "{}"
	}
	response.OK(c, gin.H{"metadata": json.RawMessage(metadata)})
}

type updateMetadataRequest struct {
	Metadata json.RawMessage `json:"metadata" binding:"required"`
}

// UpdateMetadata 整体替换元数据，只做 JSON 语法校验
func (h *Handler) UpdateMetadata(c *gin.Context) {
	fileID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件 ID 无效"))
		return
	}
	var req updateMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorResponse(c, err)
		return
	}

	if bizErr := h.engine.UpdateMetadata(middleware.CurrentUserID(c), fileID, string(req.Metadata)); bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, gin.H{"updated": true})
}

// GetLyrics 读取歌词
func (h *Handler) GetLyrics(c *gin.Context) {
	fileID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件 ID 无效"))
		return
	}

	f, err := h.files.GetByID(middleware.CurrentUserID(c), fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, response.NewNotFoundError("文件不存在或无权访问"))
			return
		}
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.OK(c, gin.H{"lyrics": f.Lyrics})
}

type updateLyricsRequest struct {
	Lyrics string `json:"lyrics"`
}

// UpdateLyrics 更新歌词，仅音频文件
func (h *Handler) UpdateLyrics(c *gin.Context) {
	fileID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件 ID 无效"))
		return
	}
	var req updateLyricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorResponse(c, err)
		return
	}

	if bizErr := h.engine.UpdateLyrics(middleware.CurrentUserID(c), fileID, req.Lyrics); bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, gin.H{"updated": true})
}

// CreateVersion 上传新版本
func (h *Handler) CreateVersion(c *gin.Context) {
	fileID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件 ID 无效"))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, response.NewValidationError("缺少版本文件"))
		return
	}
	if fh.Size > h.storage.MaxUploadSize {
		response.Error(c, response.NewValidationError("版本文件超过大小限制"))
		return
	}

	src, err := fh.Open()
	if err != nil {
		response.Error(c, response.NewStorageError("读取上传内容失败", err))
		return
	}
	defer src.Close()

	v, bizErr := h.engine.CreateVersion(middleware.CurrentUserID(c), fileID, src, c.PostForm("notes"))
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.Created(c, v)
}

// ListVersions 列出文件的历史版本
func (h *Handler) ListVersions(c *gin.Context) {
	fileID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件 ID 无效"))
		return
	}

	// 先确认文件归属，防止跨用户枚举版本
	if _, err := h.files.GetByID(middleware.CurrentUserID(c), fileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, response.NewNotFoundError("文件不存在或无权访问"))
			return
		}
		response.Error(c, response.NewDatabaseError(err))
		return
	}

	versions, err := h.versions.ListByFile(fileID)
	if err != nil {
		response.Error(c, response.NewDatabaseError(err))
		return
	}
	response.OK(c, versions)
}

// RestoreVersion 恢复到指定版本
func (h *Handler) RestoreVersion(c *gin.Context) {
	fileID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件 ID 无效"))
		return
	}
	versionID, err := parseID(c, "versionId")
	if err != nil {
		response.Error(c, response.NewValidationError("版本 ID 无效"))
		return
	}

	if bizErr := h.engine.RestoreVersion(middleware.CurrentUserID(c), fileID, versionID); bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, gin.H{"restored": true})
}

// SoftDelete 移入回收站
func (h *Handler) SoftDelete(c *gin.Context) {
	fileID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件 ID 无效"))
		return
	}

	t, bizErr := h.engine.SoftDelete(middleware.CurrentUserID(c), fileID)
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, gin.H{"trashed": true, "trash_id": t.ID})
}

// HardDelete 绕过回收站永久删除
func (h *Handler) HardDelete(c *gin.Context) {
	fileID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, response.NewValidationError("文件 ID 无效"))
		return
	}

	if bizErr := h.engine.HardDelete(middleware.CurrentUserID(c), fileID); bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
