// Package testutils 测试辅助：内嵌 sqlite 数据库与数据构造器
package testutils

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"myspace/storage-api/internal/model"
)

// SetupTestDB 在临时目录里创建 sqlite 测试数据库并完成建表。
// 数据库文件随 t.TempDir 自动清理。
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("开启外键失败: %v", err)
	}
	if err := model.InitTable(db); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}
