package user

import (
	"time"

	"gorm.io/gorm"

	usermodel "myspace/storage-api/internal/model/user"
)

// Repository 用户数据访问
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(userID uint) (*usermodel.User, error) {
	var u usermodel.User
	if err := r.db.First(&u, userID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByEmail(email string) (*usermodel.User, error) {
	var u usermodel.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&usermodel.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *Repository) Create(u *usermodel.User) error {
	return r.db.Create(u).Error
}

// Update 更新用户的可编辑字段
func (r *Repository) Update(userID uint, updates map[string]any) error {
	return r.db.Model(&usermodel.User{}).Where("id = ?", userID).Updates(updates).Error
}

// TouchLastLogin 记录最近登录时间
func (r *Repository) TouchLastLogin(userID uint) error {
	now := time.Now()
	return r.db.Model(&usermodel.User{}).Where("id = ?", userID).
		Updates(map[string]any{"last_login": &now, "online_status": true}).Error
}

// Delete 删除用户，关联行由外键级联清理
func (r *Repository) Delete(userID uint) error {
	return r.db.Delete(&usermodel.User{}, userID).Error
}
