// Package file 文件、回收站与版本模型
package file

import (
	"time"

	"myspace/storage-api/internal/model/folder"
	"myspace/storage-api/internal/model/user"
)

// File 活跃文件表。path 指向磁盘上的真实文件，行是"文件对用户是否存在"的唯一依据。
type File struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FolderID uint   `gorm:"not null;index" json:"folder_id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	// 声明的 MIME 类型
	Type string `gorm:"type:varchar(100);not null" json:"type"`
	Path string `gorm:"type:varchar(500);not null" json:"path"`
	Size int64  `gorm:"not null" json:"size"`

	Description string `json:"description"`
	// 音频文件歌词
	Lyrics string `json:"lyrics"`
	// 笔记类文件的内联内容，便于快速读取
	Content string `json:"content"`
	// 自由格式元数据，JSON 文本，核心只校验语法合法性
	Metadata      string `json:"metadata"`
	ThumbnailPath string `gorm:"type:varchar(500)" json:"thumbnail_path"`
	// 音视频时长（秒）
	Duration int    `json:"duration"`
	Artist   string `gorm:"type:varchar(255)" json:"artist"`
	Album    string `gorm:"type:varchar(255)" json:"album"`

	Pinned     bool      `gorm:"default:false" json:"pinned"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Folder folder.Folder `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	User   user.User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (File) TableName() string {
	return "files"
}

// Trash 回收站表。软删除时由 File 行转化而来，original_id 保留其在 files 表中的 ID。
// original_id 唯一索引保证同一文件最多一条回收站记录。
type Trash struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	OriginalID uint `gorm:"not null;uniqueIndex" json:"original_id"`
	UserID     uint `gorm:"not null;index" json:"user_id"`
	FolderID   uint `json:"folder_id"`

	Name string `gorm:"type:varchar(255);not null" json:"name"`
	Type string `gorm:"type:varchar(100);not null" json:"type"`
	// 回收站中的当前路径，必然不同于 original_path
	Path string `gorm:"type:varchar(500);not null" json:"path"`
	// 删除前的原路径，恢复时移回此处
	OriginalPath string `gorm:"type:varchar(500);not null" json:"original_path"`
	Size         int64  `gorm:"not null" json:"size"`

	Description   string `json:"description"`
	Lyrics        string `json:"lyrics"`
	Content       string `json:"content"`
	Metadata      string `json:"metadata"`
	ThumbnailPath string `gorm:"type:varchar(500)" json:"thumbnail_path"`
	Duration      int    `json:"duration"`
	Artist        string `gorm:"type:varchar(255)" json:"artist"`
	Album         string `gorm:"type:varchar(255)" json:"album"`

	DeletedAt time.Time `gorm:"autoCreateTime" json:"deleted_at"`

	User user.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Trash) TableName() string {
	return "trash"
}

// FileVersion 文件版本表。version_number 从 1 起每文件严格递增，
// (file_id, version_number) 唯一索引保证编号不重用。
type FileVersion struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	FileID        uint   `gorm:"not null;uniqueIndex:idx_file_version" json:"file_id"`
	VersionNumber int    `gorm:"not null;uniqueIndex:idx_file_version" json:"version_number"`
	Path          string `gorm:"type:varchar(500);not null" json:"path"`
	Size          int64  `gorm:"not null" json:"size"`
	CreatedBy     uint   `gorm:"not null" json:"created_by"`
	Notes         string `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`

	File File `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (FileVersion) TableName() string {
	return "file_versions"
}
