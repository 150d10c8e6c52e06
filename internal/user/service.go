// Package user 账号、资料与空间设置
package user

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"myspace/storage-api/config"
	"myspace/storage-api/internal/blob"
	"myspace/storage-api/internal/lifecycle"
	"myspace/storage-api/internal/middleware"
	usermodel "myspace/storage-api/internal/model/user"
	"myspace/storage-api/internal/response"
)

type Service struct {
	repo   *Repository
	files  *lifecycle.FileRepository
	blob   *blob.Store
	cfg    *config.AppConfig
	logger *zap.Logger
}

func NewService(repo *Repository, files *lifecycle.FileRepository, blobStore *blob.Store, cfg *config.AppConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, files: files, blob: blobStore, cfg: cfg, logger: logger}
}

// Signup 注册新用户，邮箱重复返回 409
func (s *Service) Signup(name, email, password string) (*usermodel.User, string, *response.BusinessError) {
	exists, err := s.repo.ExistsByEmail(email)
	if err != nil {
		return nil, "", response.NewDatabaseError(err)
	}
	if exists {
		return nil, "", response.NewConflictError("该邮箱已被注册")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", response.NewDatabaseError(err)
	}

	u := &usermodel.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.repo.Create(u); err != nil {
		return nil, "", response.NewDatabaseError(err)
	}

	token, err := middleware.GenerateToken(&s.cfg.JWT, u)
	if err != nil {
		return nil, "", response.NewDatabaseError(err)
	}
	return u, token, nil
}

// Login 登录。邮箱不存在与密码错误返回同样的提示，不泄露账号是否存在。
func (s *Service) Login(email, password string) (*usermodel.User, string, *response.BusinessError) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", response.NewUnauthorizedError("邮箱或密码错误")
		}
		return nil, "", response.NewDatabaseError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, "", response.NewUnauthorizedError("邮箱或密码错误")
	}

	if err := s.repo.TouchLastLogin(u.ID); err != nil {
		s.logger.Warn("更新登录时间失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	token, err := middleware.GenerateToken(&s.cfg.JWT, u)
	if err != nil {
		return nil, "", response.NewDatabaseError(err)
	}
	return u, token, nil
}

// GetProfile 查询用户资料
func (s *Service) GetProfile(userID uint) (*usermodel.User, *response.BusinessError) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("用户不存在")
		}
		return nil, response.NewDatabaseError(err)
	}
	return u, nil
}

// ProfileUpdate 资料更新的可选字段
type ProfileUpdate struct {
	Name     *string
	Bio      *string
	Location *string
	Website  *string
	Theme    *string
	Avatar   *multipart.FileHeader
}

// UpdateProfile 更新资料。新头像写入资源目录后，旧头像尽力删除，
// 删除失败只记日志（默认头像从不删除）。
func (s *Service) UpdateProfile(userID uint, upd ProfileUpdate) (*usermodel.User, *response.BusinessError) {
	u, bizErr := s.GetProfile(userID)
	if bizErr != nil {
		return nil, bizErr
	}

	updates := map[string]any{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Bio != nil {
		updates["bio"] = *upd.Bio
	}
	if upd.Location != nil {
		updates["location"] = *upd.Location
	}
	if upd.Website != nil {
		updates["website"] = *upd.Website
	}
	if upd.Theme != nil {
		updates["theme"] = *upd.Theme
	}

	if upd.Avatar != nil {
		avatarPath, bizErr := s.saveAvatar(upd.Avatar)
		if bizErr != nil {
			return nil, bizErr
		}
		updates["avatar_path"] = avatarPath

		if u.AvatarPath != "" && !strings.HasPrefix(u.AvatarPath, "/res/default") {
			old := filepath.Join(s.cfg.Storage.ResDir, filepath.Base(u.AvatarPath))
			if err := s.blob.Remove(old); err != nil {
				s.logger.Warn("删除旧头像失败", zap.String("path", old), zap.Error(err))
			}
		}
	}

	if len(updates) > 0 {
		if err := s.repo.Update(userID, updates); err != nil {
			return nil, response.NewDatabaseError(err)
		}
	}
	return s.GetProfile(userID)
}

func (s *Service) saveAvatar(fh *multipart.FileHeader) (string, *response.BusinessError) {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return "", response.NewValidationError("头像必须是图片文件")
	}

	src, err := fh.Open()
	if err != nil {
		return "", response.NewStorageError("读取头像失败", err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(fh.Filename)
	dst := filepath.Join(s.cfg.Storage.ResDir, name)
	if _, err := s.blob.Write(dst, src); err != nil {
		return "", response.NewStorageError("保存头像失败", err)
	}
	return "/res/" + name, nil
}

// DeleteAccount 注销账号。数据库行先删（关联行级联），
// 然后尽力清理用户的存储目录，清理失败只记日志。
func (s *Service) DeleteAccount(userID uint) *response.BusinessError {
	if _, bizErr := s.GetProfile(userID); bizErr != nil {
		return bizErr
	}

	if err := s.repo.Delete(userID); err != nil {
		return response.NewDatabaseError(err)
	}

	if err := s.blob.RemoveUserDir(userID); err != nil {
		s.logger.Warn("清理用户存储目录失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	return nil
}

// SpaceName 查询空间名称
func (s *Service) SpaceName(userID uint) (string, *response.BusinessError) {
	u, bizErr := s.GetProfile(userID)
	if bizErr != nil {
		return "", bizErr
	}
	return u.SpaceName, nil
}

// UpdateSpaceName 更新空间名称
func (s *Service) UpdateSpaceName(userID uint, name string) *response.BusinessError {
	if name == "" {
		return response.NewValidationError("空间名称不能为空")
	}
	if err := s.repo.Update(userID, map[string]any{"space_name": name}); err != nil {
		return response.NewDatabaseError(err)
	}
	return nil
}

// StorageUsage 存储用量
type StorageUsage struct {
	Used  int64 `json:"used"`
	Limit int64 `json:"limit"`
}

// Usage 统计用户活跃文件占用的字节数
func (s *Service) Usage(userID uint) (*StorageUsage, *response.BusinessError) {
	used, err := s.files.TotalSize(userID)
	if err != nil {
		return nil, response.NewDatabaseError(err)
	}
	return &StorageUsage{Used: used, Limit: s.cfg.Storage.MaxStoragePerUser}, nil
}
