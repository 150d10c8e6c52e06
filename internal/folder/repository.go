package folder

import (
	"gorm.io/gorm"

	foldermodel "myspace/storage-api/internal/model/folder"
)

// Repository 文件夹数据访问
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOwned 按归属查询文件夹，查不到与归属不符同样返回 gorm.ErrRecordNotFound
func (r *Repository) GetOwned(userID, folderID uint) (*foldermodel.Folder, error) {
	var f foldermodel.Folder
	err := r.db.Where("id = ? AND user_id = ?", folderID, userID).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FolderWithCount 文件夹及其包含的文件数量
type FolderWithCount struct {
	foldermodel.Folder
	FileCount int64 `json:"file_count"`
}

// ListByUser 列出用户的全部文件夹，附带文件数量
func (r *Repository) ListByUser(userID uint) ([]FolderWithCount, error) {
	var folders []FolderWithCount
	err := r.db.Model(&foldermodel.Folder{}).
		Select("folders.*, (SELECT COUNT(*) FROM files WHERE files.folder_id = folders.id) AS file_count").
		Where("folders.user_id = ?", userID).
		Order("folders.created_at ASC").
		Find(&folders).Error
	if err != nil {
		return nil, err
	}
	return folders, nil
}

// Create 创建文件夹
func (r *Repository) Create(f *foldermodel.Folder) error {
	return r.db.Create(f).Error
}

// Update 更新文件夹的可编辑字段
func (r *Repository) Update(userID, folderID uint, updates map[string]any) (int64, error) {
	result := r.db.Model(&foldermodel.Folder{}).
		Where("id = ? AND user_id = ?", folderID, userID).
		Updates(updates)
	return result.RowsAffected, result.Error
}
