package model

import (
	"gorm.io/gorm"

	"myspace/storage-api/internal/model/activity"
	"myspace/storage-api/internal/model/file"
	"myspace/storage-api/internal/model/folder"
	"myspace/storage-api/internal/model/notification"
	"myspace/storage-api/internal/model/user"
)

func InitTable(db *gorm.DB) error {
	// 自动迁移数据库表结构。外键级联在关联约束中声明：
	// 删除用户会级联清理其文件夹、文件、回收站、版本、动态与通知。
	err := db.AutoMigrate(
		&user.User{},
		&folder.Folder{},
		&file.File{},
		&file.Trash{},
		&file.FileVersion{},
		&activity.Activity{},
		&notification.Notification{},
	)
	if err != nil {
		return err
	}
	return nil
}
