// Package folder 文件夹模型
package folder

import (
	"time"

	"myspace/storage-api/internal/model/user"
)

// 允许的文件夹类型
var AllowedTypes = []string{
	"note", "image", "video", "audio", "document",
	"pdf", "spreadsheet", "presentation", "archive", "code", "other",
}

// IsAllowedType 检查文件夹类型是否合法
func IsAllowedType(t string) bool {
	for _, allowed := range AllowedTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// Folder 文件夹表（类型化容器，上传时按类型校验文件）
type Folder struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Type        string `gorm:"type:varchar(20);not null" json:"type"`
	Description string `json:"description"`
	Color       string `gorm:"type:varchar(7);default:'#3b82f6'" json:"color"`
	Icon        string `gorm:"type:varchar(20)" json:"icon"`
	IsPublic    bool   `gorm:"default:false" json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User user.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Folder) TableName() string {
	return "folders"
}
