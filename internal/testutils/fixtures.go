package testutils

import (
	"testing"

	"gorm.io/gorm"

	filemodel "myspace/storage-api/internal/model/file"
	foldermodel "myspace/storage-api/internal/model/folder"
	usermodel "myspace/storage-api/internal/model/user"
)

// UserOption 用户构造选项
type UserOption func(*usermodel.User)

func WithUserEmail(email string) UserOption {
	return func(u *usermodel.User) { u.Email = email }
}

func WithUserName(name string) UserOption {
	return func(u *usermodel.User) { u.Name = name }
}

// CreateTestUser 创建测试用户
func CreateTestUser(t *testing.T, db *gorm.DB, opts ...UserOption) *usermodel.User {
	t.Helper()

	u := &usermodel.User{
		Name:     "测试用户",
		Email:    "test@example.com",
		Password: "$2a$10$abcdefghijklmnopqrstuv",
	}
	for _, opt := range opts {
		opt(u)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return u
}

// FolderOption 文件夹构造选项
type FolderOption func(*foldermodel.Folder)

func WithFolderType(folderType string) FolderOption {
	return func(f *foldermodel.Folder) { f.Type = folderType }
}

func WithFolderName(name string) FolderOption {
	return func(f *foldermodel.Folder) { f.Name = name }
}

// CreateTestFolder 创建测试文件夹，默认 other 类型（接受任意文件）
func CreateTestFolder(t *testing.T, db *gorm.DB, userID uint, opts ...FolderOption) *foldermodel.Folder {
	t.Helper()

	f := &foldermodel.Folder{
		UserID: userID,
		Name:   "测试文件夹",
		Type:   "other",
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("创建测试文件夹失败: %v", err)
	}
	return f
}

// FileOption 文件构造选项
type FileOption func(*filemodel.File)

func WithFileName(name string) FileOption {
	return func(f *filemodel.File) { f.Name = name }
}

func WithFileType(fileType string) FileOption {
	return func(f *filemodel.File) { f.Type = fileType }
}

func WithFilePath(path string) FileOption {
	return func(f *filemodel.File) { f.Path = path }
}

func WithFileSize(size int64) FileOption {
	return func(f *filemodel.File) { f.Size = size }
}

// CreateTestFile 直接在数据库里创建文件行（不经过引擎，不写磁盘）
func CreateTestFile(t *testing.T, db *gorm.DB, userID, folderID uint, opts ...FileOption) *filemodel.File {
	t.Helper()

	f := &filemodel.File{
		UserID:   userID,
		FolderID: folderID,
		Name:     "测试文件.txt",
		Type:     "text/plain",
		Path:     "/nonexistent/测试文件.txt",
		Size:     0,
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("创建测试文件失败: %v", err)
	}
	return f
}
