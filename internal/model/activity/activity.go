// Package activity 最近动态模型
package activity

import (
	"time"

	"myspace/storage-api/internal/model/user"
)

// Activity 动态记录。成功的变更操作之后异步写入，写入失败只记日志，不回滚业务操作。
type Activity struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Type       string `gorm:"type:varchar(50);not null" json:"type"`
	TargetID   uint   `json:"target_id"`
	TargetType string `gorm:"type:varchar(20)" json:"target_type"`
	// 附加信息，JSON 文本
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`

	User user.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Activity) TableName() string {
	return "activities"
}
