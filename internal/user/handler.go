package user

import (
	"github.com/gin-gonic/gin"

	"myspace/storage-api/internal/middleware"
	"myspace/storage-api/internal/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// Signup 注册账号
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorResponse(c, err)
		return
	}

	u, token, bizErr := h.service.Signup(req.Name, req.Email, req.Password)
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.Created(c, gin.H{"user": u, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorResponse(c, err)
		return
	}

	u, token, bizErr := h.service.Login(req.Email, req.Password)
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, gin.H{"user": u, "token": token})
}

// Me 当前用户资料
func (h *Handler) Me(c *gin.Context) {
	u, bizErr := h.service.GetProfile(middleware.CurrentUserID(c))
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, u)
}

// UpdateProfile 更新资料，multipart 表单，头像字段名 avatar
func (h *Handler) UpdateProfile(c *gin.Context) {
	upd := ProfileUpdate{}
	if v, ok := c.GetPostForm("name"); ok {
		upd.Name = &v
	}
	if v, ok := c.GetPostForm("bio"); ok {
		upd.Bio = &v
	}
	if v, ok := c.GetPostForm("location"); ok {
		upd.Location = &v
	}
	if v, ok := c.GetPostForm("website"); ok {
		upd.Website = &v
	}
	if v, ok := c.GetPostForm("theme"); ok {
		upd.Theme = &v
	}
	if fh, err := c.FormFile("avatar"); err == nil {
		upd.Avatar = fh
	}

	u, bizErr := h.service.UpdateProfile(middleware.CurrentUserID(c), upd)
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, u)
}

// DeleteAccount 注销账号
func (h *Handler) DeleteAccount(c *gin.Context) {
	if bizErr := h.service.DeleteAccount(middleware.CurrentUserID(c)); bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

// GetSpaceName 查询空间名称
func (h *Handler) GetSpaceName(c *gin.Context) {
	name, bizErr := h.service.SpaceName(middleware.CurrentUserID(c))
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, gin.H{"space_name": name})
}

type updateSpaceNameRequest struct {
	SpaceName string `json:"space_name" binding:"required,max=100"`
}

// UpdateSpaceName 修改空间名称
func (h *Handler) UpdateSpaceName(c *gin.Context) {
	var req updateSpaceNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorResponse(c, err)
		return
	}

	if bizErr := h.service.UpdateSpaceName(middleware.CurrentUserID(c), req.SpaceName); bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, gin.H{"space_name": req.SpaceName})
}

// Usage 存储用量
func (h *Handler) Usage(c *gin.Context) {
	usage, bizErr := h.service.Usage(middleware.CurrentUserID(c))
	if bizErr != nil {
		response.Error(c, bizErr)
		return
	}
	response.OK(c, usage)
}

// Limits 存储限制
func (h *Handler) Limits(c *gin.Context) {
	response.OK(c, gin.H{
		"max_upload_size":      h.service.cfg.Storage.MaxUploadSize,
		"max_storage_per_user": h.service.cfg.Storage.MaxStoragePerUser,
	})
}
