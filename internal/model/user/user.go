// Package user 用户相关模型
package user

import (
	"time"
)

// User 用户表
type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(100);not null" json:"name"`
	Email string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	// bcrypt 哈希，永不出现在 JSON 响应中
	Password   string `gorm:"type:varchar(100);not null" json:"-"`
	AvatarPath string `gorm:"type:varchar(500);default:'/res/default_profile.png'" json:"avatar_path"`
	Bio        string `json:"bio"`
	Location   string `gorm:"type:varchar(255)" json:"location"`
	Website    string `gorm:"type:varchar(255)" json:"website"`
	Theme      string `gorm:"type:varchar(20);default:'light'" json:"theme"`
	// 用户的空间名称，在前端侧边栏展示
	SpaceName    string     `gorm:"type:varchar(100);default:'MySpace'" json:"space_name"`
	OnlineStatus bool       `gorm:"default:false" json:"online_status"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
