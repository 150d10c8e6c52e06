// Package notification 通知模型
package notification

import (
	"time"

	"myspace/storage-api/internal/model/user"
)

// Notification 通知表
type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Type    string `gorm:"type:varchar(50);not null" json:"type"`
	Message string `gorm:"not null" json:"message"`
	Link    string `gorm:"type:varchar(500)" json:"link"`
	// read 是 SQL 保留字，显式指定列名
	Read      bool      `gorm:"column:read;default:false" json:"read"`
	Starred   bool      `gorm:"default:false" json:"starred"`
	Archived  bool      `gorm:"default:false" json:"archived"`
	CreatedAt time.Time `json:"created_at"`

	User user.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
