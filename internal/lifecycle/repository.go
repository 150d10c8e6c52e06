package lifecycle

import (
	"gorm.io/gorm"

	filemodel "myspace/storage-api/internal/model/file"
)

// FileRepository 活跃文件表的仓储层。
// 所有读写都带 user_id 过滤；多步操作的每一步单独暴露，
// 由引擎负责排序与补偿，这一层不在单个调用里隐藏多个步骤。
type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) GetByID(userID, fileID uint) (*filemodel.File, error) {
	var f filemodel.File
	err := r.db.Where("id = ? AND user_id = ?", fileID, userID).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetNote 按笔记类型查找文件，非笔记文件与不存在同样返回 ErrRecordNotFound
func (r *FileRepository) GetNote(userID, fileID uint) (*filemodel.File, error) {
	var f filemodel.File
	err := r.db.Where("id = ? AND user_id = ? AND type = ?", fileID, userID, "text/plain").First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FileRepository) ListByFolder(userID, folderID uint, sortField, sortDir string) ([]filemodel.File, error) {
	var files []filemodel.File
	err := r.db.Where("folder_id = ? AND user_id = ?", folderID, userID).
		Order("pinned DESC").
		Order(sortField + " " + sortDir).
		Find(&files).Error
	return files, err
}

func (r *FileRepository) Create(f *filemodel.File) error {
	return r.db.Create(f).Error
}

// Delete 删除活跃文件行，返回受影响行数。
// 0 行受影响意味着行已被并发删除，调用方必须将其视为 NotFound。
func (r *FileRepository) Delete(userID, fileID uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", fileID, userID).Delete(&filemodel.File{})
	return result.RowsAffected, result.Error
}

func (r *FileRepository) UpdateSize(fileID uint, size int64) error {
	return r.db.Model(&filemodel.File{}).Where("id = ?", fileID).
		Updates(map[string]any{"size": size}).Error
}

func (r *FileRepository) UpdateContent(fileID uint, content string, size int64) error {
	return r.db.Model(&filemodel.File{}).Where("id = ?", fileID).
		Updates(map[string]any{"content": content, "size": size}).Error
}

func (r *FileRepository) UpdateMetadata(userID, fileID uint, metadata string) (int64, error) {
	result := r.db.Model(&filemodel.File{}).Where("id = ? AND user_id = ?", fileID, userID).
		Update("metadata", metadata)
	return result.RowsAffected, result.Error
}

func (r *FileRepository) UpdateLyrics(fileID uint, lyrics string) error {
	return r.db.Model(&filemodel.File{}).Where("id = ?", fileID).
		Update("lyrics", lyrics).Error
}

func (r *FileRepository) SetPinned(fileID uint, pinned bool) error {
	return r.db.Model(&filemodel.File{}).Where("id = ?", fileID).
		Update("pinned", pinned).Error
}

// TotalSize 用户所有活跃文件的字节总量
func (r *FileRepository) TotalSize(userID uint) (int64, error) {
	var total int64
	err := r.db.Model(&filemodel.File{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(size), 0)").Scan(&total).Error
	return total, err
}

// TrashRepository 回收站表的仓储层
type TrashRepository struct {
	db *gorm.DB
}

func NewTrashRepository(db *gorm.DB) *TrashRepository {
	return &TrashRepository{db: db}
}

func (r *TrashRepository) GetByID(userID, trashID uint) (*filemodel.Trash, error) {
	var t filemodel.Trash
	err := r.db.Where("id = ? AND user_id = ?", trashID, userID).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TrashRepository) ListByUser(userID uint) ([]filemodel.Trash, error) {
	var items []filemodel.Trash
	err := r.db.Where("user_id = ?", userID).Order("deleted_at DESC").Find(&items).Error
	return items, err
}

func (r *TrashRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&filemodel.Trash{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *TrashRepository) Create(t *filemodel.Trash) error {
	return r.db.Create(t).Error
}

func (r *TrashRepository) Delete(trashID uint) (int64, error) {
	result := r.db.Where("id = ?", trashID).Delete(&filemodel.Trash{})
	return result.RowsAffected, result.Error
}

// VersionRepository 文件版本表的仓储层
type VersionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

func (r *VersionRepository) GetByID(fileID, versionID uint) (*filemodel.FileVersion, error) {
	var v filemodel.FileVersion
	err := r.db.Where("id = ? AND file_id = ?", versionID, fileID).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// VersionInfo 版本列表项，附带创建者名称
type VersionInfo struct {
	ID            uint   `json:"id"`
	VersionNumber int    `json:"version_number"`
	Path          string `json:"path"`
	Size          int64  `json:"size"`
	CreatedAt     string `json:"created_at"`
	Notes         string `json:"notes"`
	CreatedByName string `json:"created_by_name"`
}

func (r *VersionRepository) ListByFile(fileID uint) ([]VersionInfo, error) {
	var versions []VersionInfo
	err := r.db.Table("file_versions").
		Select("file_versions.id, file_versions.version_number, file_versions.path, file_versions.size, file_versions.created_at, file_versions.notes, users.name AS created_by_name").
		Joins("JOIN users ON file_versions.created_by = users.id").
		Where("file_versions.file_id = ?", fileID).
		Order("file_versions.version_number DESC").
		Scan(&versions).Error
	return versions, err
}

// CreateNext 插入新版本并在同一条语句内计算版本号（当前版本数 + 1），
// 避免"先读计数再写入"的竞态；(file_id, version_number) 唯一索引兜底。
// 插入成功后回填 v 的 ID 与 VersionNumber。
func (r *VersionRepository) CreateNext(v *filemodel.FileVersion) error {
	err := r.db.Exec(
		`INSERT INTO file_versions (file_id, version_number, path, size, created_by, notes, created_at)
		 VALUES (?, (SELECT COUNT(*) + 1 FROM file_versions WHERE file_id = ?), ?, ?, ?, ?, ?)`,
		v.FileID, v.FileID, v.Path, v.Size, v.CreatedBy, v.Notes, v.CreatedAt,
	).Error
	if err != nil {
		return err
	}

	var inserted filemodel.FileVersion
	if err := r.db.Where("file_id = ? AND path = ?", v.FileID, v.Path).First(&inserted).Error; err != nil {
		return err
	}
	v.ID = inserted.ID
	v.VersionNumber = inserted.VersionNumber
	return nil
}

func (r *VersionRepository) DeleteByFile(fileID uint) error {
	return r.db.Where("file_id = ?", fileID).Delete(&filemodel.FileVersion{}).Error
}
