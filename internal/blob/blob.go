// Package blob 文件字节的磁盘存储。
// 只负责字节的写入、移动、复制与删除，"哪些字节是活跃的"由元数据层决定。
// 活跃文件放在每用户一个的扁平目录 uploads/user_<id>/ 下，
// 回收站字节统一放在扁平的 trash/ 目录下；
// 磁盘文件名与展示名解耦，使用时间戳加随机后缀，避免冲突与路径穿越。
package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store 磁盘存储
type Store struct {
	uploadDir string
	trashDir  string
}

// New 创建 Store，确保根目录存在
func New(uploadDir, trashDir string) (*Store, error) {
	if err := os.MkdirAll(uploadDir, 0o750); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	if err := os.MkdirAll(trashDir, 0o750); err != nil {
		return nil, fmt.Errorf("创建回收站目录失败: %w", err)
	}
	return &Store{uploadDir: uploadDir, trashDir: trashDir}, nil
}

// UploadDir 上传根目录
func (s *Store) UploadDir() string {
	return s.uploadDir
}

// TrashDir 回收站目录
func (s *Store) TrashDir() string {
	return s.trashDir
}

// UserDir 返回并确保用户目录存在
func (s *Store) UserDir(userID uint) (string, error) {
	dir := filepath.Join(s.uploadDir, fmt.Sprintf("user_%d", userID))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("创建用户目录失败: %w", err)
	}
	return dir, nil
}

// NewFilePath 为用户的一个新文件生成存储路径。
// 文件名与展示名解耦：{timestamp}_{短uuid}{ext}
func (s *Store) NewFilePath(userID uint, originalName string) (string, error) {
	dir, err := s.UserDir(userID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, storageName(originalName)), nil
}

// NewTrashPath 为被软删除的文件生成回收站路径，与原名无关
func (s *Store) NewTrashPath(originalPath string) string {
	ext := filepath.Ext(originalPath)
	return filepath.Join(s.trashDir, uuid.New().String()+ext)
}

// Write 将 reader 的内容写入 path。
// 写入模式：temp 文件 → fsync → 原子 rename，失败时清理 temp 文件，
// 目标路径上原有的文件在 rename 之前不受影响。
func (s *Store) Write(path string, reader io.Reader) (int64, error) {
	tmpPath := path + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("创建临时文件失败: %w", err)
	}

	size, err := io.Copy(f, reader)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("写入数据失败: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("fsync 失败: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("关闭文件失败: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("原子重命名失败: %w", err)
	}

	return size, nil
}

// Move 移动文件，必要时创建目标父目录
func (s *Store) Move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("创建目标目录失败: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("移动文件失败: %w", err)
	}
	return nil
}

// Copy 复制文件内容并落盘
func (s *Store) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("打开源文件失败: %w", err)
	}
	defer in.Close()

	if _, err := s.Write(dst, in); err != nil {
		return err
	}
	return nil
}

// Remove 删除文件，文件不存在视为成功（元数据行才是权威）
func (s *Store) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}

// RemoveIfExists 删除文件并报告它此前是否存在。
// 回收站清空时用返回值区分"正常删除"与"字节已缺失"。
func (s *Store) RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("删除文件失败: %w", err)
}

// RemoveUserDir 删除整个用户目录（注销账号时调用），目录不存在视为成功
func (s *Store) RemoveUserDir(userID uint) error {
	dir := filepath.Join(s.uploadDir, fmt.Sprintf("user_%d", userID))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("删除用户目录失败: %w", err)
	}
	return nil
}

// Stat 查询文件信息
func (s *Store) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// storageName 生成磁盘文件名：{timestamp}_{短uuid}{ext}
func storageName(originalName string) string {
	ext := filepath.Ext(originalName)
	ts := time.Now().UTC().Format("20060102150405")
	uid := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%s%s", ts, uid, ext)
}
