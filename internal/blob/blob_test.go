package blob

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	base := t.TempDir()
	s, err := New(filepath.Join(base, "uploads"), filepath.Join(base, "trash"))
	require.NoError(t, err)
	return s
}

func TestWrite(t *testing.T) {
	s := newTestStore(t)

	t.Run("写入内容并返回字节数", func(t *testing.T) {
		path := filepath.Join(s.UploadDir(), "a.txt")
		size, err := s.Write(path, strings.NewReader("hello"))
		require.NoError(t, err)
		assert.Equal(t, int64(5), size)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("不留下临时文件", func(t *testing.T) {
		path := filepath.Join(s.UploadDir(), "b.txt")
		_, err := s.Write(path, strings.NewReader("data"))
		require.NoError(t, err)

		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("原子替换已有内容", func(t *testing.T) {
		path := filepath.Join(s.UploadDir(), "c.txt")
		_, err := s.Write(path, strings.NewReader("旧内容"))
		require.NoError(t, err)
		_, err = s.Write(path, strings.NewReader("新内容"))
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "新内容", string(data))
	})
}

func TestNewFilePath(t *testing.T) {
	s := newTestStore(t)

	path, err := s.NewFilePath(42, "歌曲.mp3")
	require.NoError(t, err)

	// 路径在用户目录下，磁盘名与展示名解耦但保留扩展名
	assert.True(t, strings.HasPrefix(path, filepath.Join(s.UploadDir(), "user_42")))
	assert.True(t, strings.HasSuffix(path, ".mp3"))
	assert.NotContains(t, filepath.Base(path), "歌曲")

	// 用户目录已经创建好
	info, err := os.Stat(filepath.Join(s.UploadDir(), "user_42"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewTrashPath(t *testing.T) {
	s := newTestStore(t)

	original := filepath.Join(s.UploadDir(), "user_1", "abc.mp3")
	trashPath := s.NewTrashPath(original)

	assert.Equal(t, s.TrashDir(), filepath.Dir(trashPath))
	assert.True(t, strings.HasSuffix(trashPath, ".mp3"))
	assert.NotEqual(t, original, trashPath)

	// 同一个源路径两次生成的回收站路径不同，避免命名冲突
	assert.NotEqual(t, trashPath, s.NewTrashPath(original))
}

func TestMove(t *testing.T) {
	s := newTestStore(t)

	src := filepath.Join(s.UploadDir(), "src.txt")
	_, err := s.Write(src, strings.NewReader("content"))
	require.NoError(t, err)

	dst := filepath.Join(s.TrashDir(), "sub", "dst.txt")
	require.NoError(t, s.Move(src, dst))

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestCopy(t *testing.T) {
	s := newTestStore(t)

	src := filepath.Join(s.UploadDir(), "src.txt")
	_, err := s.Write(src, strings.NewReader("副本内容"))
	require.NoError(t, err)

	dst := filepath.Join(s.UploadDir(), "dst.txt")
	require.NoError(t, s.Copy(src, dst))

	srcData, _ := os.ReadFile(src)
	dstData, _ := os.ReadFile(dst)
	assert.Equal(t, srcData, dstData)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	t.Run("删除存在的文件", func(t *testing.T) {
		path := filepath.Join(s.UploadDir(), "x.txt")
		_, err := s.Write(path, strings.NewReader("x"))
		require.NoError(t, err)

		require.NoError(t, s.Remove(path))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("文件不存在视为成功", func(t *testing.T) {
		assert.NoError(t, s.Remove(filepath.Join(s.UploadDir(), "不存在.txt")))
	})
}

func TestRemoveIfExists(t *testing.T) {
	s := newTestStore(t)

	path := filepath.Join(s.UploadDir(), "y.txt")
	_, err := s.Write(path, strings.NewReader("y"))
	require.NoError(t, err)

	existed, err := s.RemoveIfExists(path)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.RemoveIfExists(path)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestRemoveUserDir(t *testing.T) {
	s := newTestStore(t)

	path, err := s.NewFilePath(7, "a.txt")
	require.NoError(t, err)
	_, err = s.Write(path, strings.NewReader("a"))
	require.NoError(t, err)

	require.NoError(t, s.RemoveUserDir(7))
	_, err = os.Stat(filepath.Join(s.UploadDir(), "user_7"))
	assert.True(t, os.IsNotExist(err))

	// 目录不存在时同样成功
	assert.NoError(t, s.RemoveUserDir(7))
}
