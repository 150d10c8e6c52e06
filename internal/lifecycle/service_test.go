package lifecycle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myspace/storage-api/internal/blob"
	"myspace/storage-api/internal/folder"
	filemodel "myspace/storage-api/internal/model/file"
	foldermodel "myspace/storage-api/internal/model/folder"
	usermodel "myspace/storage-api/internal/model/user"
	"myspace/storage-api/internal/response"
	"myspace/storage-api/internal/testutils"
)

// testEnv 引擎测试环境：真实的 sqlite 元数据库 + 临时目录上的真实字节存储
type testEnv struct {
	store    *blob.Store
	files    *FileRepository
	trash    *TrashRepository
	versions *VersionRepository
	folders  *folder.Repository
	svc      *Service
	user     *usermodel.User
	folder   *foldermodel.Folder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutils.SetupTestDB(t)

	base := t.TempDir()
	store, err := blob.New(filepath.Join(base, "uploads"), filepath.Join(base, "trash"))
	require.NoError(t, err)

	env := &testEnv{
		store:    store,
		files:    NewFileRepository(db),
		trash:    NewTrashRepository(db),
		versions: NewVersionRepository(db),
		folders:  folder.NewRepository(db),
		user:     testutils.CreateTestUser(t, db),
	}
	env.folder = testutils.CreateTestFolder(t, db, env.user.ID)
	env.svc = NewService(env.files, env.trash, env.versions, env.folders, env.store, nil, nil)
	return env
}

// rebuild 用替换过的依赖重建引擎，用于故障注入
func (e *testEnv) rebuild(files FileRepo, trash TrashRepo, blobStore BlobStore) {
	if files == nil {
		files = e.files
	}
	if trash == nil {
		trash = e.trash
	}
	if blobStore == nil {
		blobStore = e.store
	}
	e.svc = NewService(files, trash, e.versions, e.folders, blobStore, nil, nil)
}

func (e *testEnv) upload(t *testing.T, name, mime, content string) *filemodel.File {
	t.Helper()
	f, bizErr := e.svc.CreateFromUpload(e.user.ID, e.folder.ID, strings.NewReader(content), name, mime)
	require.Nil(t, bizErr)
	return f
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// ===== 故障注入包装 =====

type failingFileRepo struct {
	FileRepo
	failCreate bool
}

func (r *failingFileRepo) Create(f *filemodel.File) error {
	if r.failCreate {
		return errors.New("注入的数据库故障")
	}
	return r.FileRepo.Create(f)
}

type failingTrashRepo struct {
	TrashRepo
	failCreate bool
}

func (r *failingTrashRepo) Create(item *filemodel.Trash) error {
	if r.failCreate {
		return errors.New("注入的数据库故障")
	}
	return r.TrashRepo.Create(item)
}

type failingBlob struct {
	BlobStore
	failRemoveIfExists bool
}

func (b *failingBlob) RemoveIfExists(path string) (bool, error) {
	if b.failRemoveIfExists {
		return false, errors.New("注入的磁盘故障")
	}
	return b.BlobStore.RemoveIfExists(path)
}

// ===== 上传 =====

func TestCreateFromUpload(t *testing.T) {
	t.Run("字节与元数据都落地", func(t *testing.T) {
		env := newTestEnv(t)
		f := env.upload(t, "歌曲.mp3", "audio/mpeg", "音频数据")

		assert.Equal(t, "歌曲.mp3", f.Name)
		assert.Equal(t, int64(len("音频数据")), f.Size)
		assert.Equal(t, "音频数据", readFile(t, f.Path))

		got, err := env.files.GetByID(env.user.ID, f.ID)
		require.NoError(t, err)
		assert.Equal(t, f.Path, got.Path)
	})

	t.Run("类型不兼容在写入任何字节之前拒绝", func(t *testing.T) {
		env := newTestEnv(t)
		audioFolder := &foldermodel.Folder{UserID: env.user.ID, Name: "音乐", Type: "audio"}
		require.NoError(t, env.folders.Create(audioFolder))

		_, bizErr := env.svc.CreateFromUpload(env.user.ID, audioFolder.ID, strings.NewReader("文本"), "a.txt", "text/plain")
		require.NotNil(t, bizErr)
		assert.Equal(t, response.KindValidation, bizErr.Kind)

		// 用户目录里没有留下任何文件
		entries, err := os.ReadDir(env.store.UploadDir())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("元数据插入失败时删除已写入的字节", func(t *testing.T) {
		env := newTestEnv(t)
		env.rebuild(&failingFileRepo{FileRepo: env.files, failCreate: true}, nil, nil)

		_, bizErr := env.svc.CreateFromUpload(env.user.ID, env.folder.ID, strings.NewReader("数据"), "a.bin", "application/octet-stream")
		require.NotNil(t, bizErr)
		assert.Equal(t, response.KindConsistency, bizErr.Kind)

		userDir, err := env.store.UserDir(env.user.ID)
		require.NoError(t, err)
		entries, err := os.ReadDir(userDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("文件夹不存在返回 NotFound", func(t *testing.T) {
		env := newTestEnv(t)
		_, bizErr := env.svc.CreateFromUpload(env.user.ID, 9999, strings.NewReader("x"), "a.txt", "text/plain")
		require.NotNil(t, bizErr)
		assert.Equal(t, response.KindNotFound, bizErr.Kind)
	})
}

// ===== 笔记 =====

func TestNotes(t *testing.T) {
	env := newTestEnv(t)
	noteFolder := &foldermodel.Folder{UserID: env.user.ID, Name: "笔记", Type: "note"}
	require.NoError(t, env.folders.Create(noteFolder))

	t.Run("创建笔记内容与大小一致", func(t *testing.T) {
		f, bizErr := env.svc.CreateNote(env.user.ID, noteFolder.ID, "hello", "hello", "")
		require.Nil(t, bizErr)

		assert.Equal(t, int64(5), f.Size)
		assert.Equal(t, "text/plain", f.Type)
		assert.Equal(t, "hello", f.Content)
		assert.Equal(t, "hello", readFile(t, f.Path))
	})

	t.Run("非笔记文件夹拒绝创建", func(t *testing.T) {
		_, bizErr := env.svc.CreateNote(env.user.ID, env.folder.ID, "x", "y", "")
		require.NotNil(t, bizErr)
		assert.Equal(t, response.KindValidation, bizErr.Kind)
	})

	t.Run("更新笔记同步字节与行", func(t *testing.T) {
		f, bizErr := env.svc.CreateNote(env.user.ID, noteFolder.ID, "待更新", "旧内容", "")
		require.Nil(t, bizErr)

		require.Nil(t, env.svc.UpdateNote(env.user.ID, f.ID, "新的更长的内容"))

		got, err := env.files.GetByID(env.user.ID, f.ID)
		require.NoError(t, err)
		assert.Equal(t, "新的更长的内容", got.Content)
		assert.Equal(t, int64(len("新的更长的内容")), got.Size)
		assert.Equal(t, "新的更长的内容", readFile(t, got.Path))
	})
}

// ===== 回收站 =====

func TestSoftDeleteAndRestore(t *testing.T) {
	env := newTestEnv(t)
	f := env.upload(t, "文档.txt", "text/plain", "重要内容")
	originalPath := f.Path

	item, bizErr := env.svc.SoftDelete(env.user.ID, f.ID)
	require.Nil(t, bizErr)

	t.Run("删除后活跃行消失字节在回收站", func(t *testing.T) {
		_, err := env.files.GetByID(env.user.ID, f.ID)
		assert.Error(t, err)

		assert.Equal(t, f.ID, item.OriginalID)
		assert.Equal(t, originalPath, item.OriginalPath)
		assert.NotEqual(t, item.Path, item.OriginalPath)
		assert.Equal(t, "重要内容", readFile(t, item.Path))

		_, err = os.Stat(originalPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("恢复后原 ID 原路径字节一致", func(t *testing.T) {
		restored, bizErr := env.svc.Restore(env.user.ID, item.ID)
		require.Nil(t, bizErr)

		assert.Equal(t, f.ID, restored.ID)
		assert.Equal(t, originalPath, restored.Path)
		assert.Equal(t, "重要内容", readFile(t, originalPath))

		count, err := env.trash.CountByUser(env.user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestSoftDeleteCompensation(t *testing.T) {
	env := newTestEnv(t)
	f := env.upload(t, "文档.txt", "text/plain", "内容")

	env.rebuild(nil, &failingTrashRepo{TrashRepo: env.trash, failCreate: true}, nil)

	_, bizErr := env.svc.SoftDelete(env.user.ID, f.ID)
	require.NotNil(t, bizErr)
	assert.Equal(t, response.KindConsistency, bizErr.Kind)

	// 完全回到调用前的状态：行在、字节在原路径、回收站为空
	got, err := env.files.GetByID(env.user.ID, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "内容", readFile(t, got.Path))

	count, err := env.trash.CountByUser(env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestPurge(t *testing.T) {
	t.Run("清除后字节与行都消失", func(t *testing.T) {
		env := newTestEnv(t)
		f := env.upload(t, "a.txt", "text/plain", "a")
		item, bizErr := env.svc.SoftDelete(env.user.ID, f.ID)
		require.Nil(t, bizErr)

		require.Nil(t, env.svc.PurgeOne(env.user.ID, item.ID))

		_, err := os.Stat(item.Path)
		assert.True(t, os.IsNotExist(err))
		count, err := env.trash.CountByUser(env.user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("清除后再恢复返回 NotFound", func(t *testing.T) {
		env := newTestEnv(t)
		f := env.upload(t, "a.txt", "text/plain", "a")
		item, bizErr := env.svc.SoftDelete(env.user.ID, f.ID)
		require.Nil(t, bizErr)
		require.Nil(t, env.svc.PurgeOne(env.user.ID, item.ID))

		_, bizErr = env.svc.Restore(env.user.ID, item.ID)
		require.NotNil(t, bizErr)
		assert.Equal(t, response.KindNotFound, bizErr.Kind)
	})

	t.Run("字节已缺失时视为成功", func(t *testing.T) {
		env := newTestEnv(t)
		f := env.upload(t, "a.txt", "text/plain", "a")
		item, bizErr := env.svc.SoftDelete(env.user.ID, f.ID)
		require.Nil(t, bizErr)

		require.NoError(t, os.Remove(item.Path))
		assert.Nil(t, env.svc.PurgeOne(env.user.ID, item.ID))
	})
}

func TestPurgeAll(t *testing.T) {
	t.Run("字节缺失的项目计入 Suppressed 而非错误", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.upload(t, "a.txt", "text/plain", "a")
		b := env.upload(t, "b.txt", "text/plain", "b")
		itemA, bizErr := env.svc.SoftDelete(env.user.ID, a.ID)
		require.Nil(t, bizErr)
		_, bizErr = env.svc.SoftDelete(env.user.ID, b.ID)
		require.Nil(t, bizErr)

		// 其中一个的字节在外部消失了
		require.NoError(t, os.Remove(itemA.Path))

		result, bizErr := env.svc.PurgeAll(env.user.ID)
		require.Nil(t, bizErr)
		assert.Equal(t, 2, result.DeletedCount)
		assert.Equal(t, 1, result.Suppressed)
		assert.Empty(t, result.Errors)

		count, err := env.trash.CountByUser(env.user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("单项失败不中止整批且保留失败项的行", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.upload(t, "a.txt", "text/plain", "a")
		_, bizErr := env.svc.SoftDelete(env.user.ID, a.ID)
		require.Nil(t, bizErr)

		env.rebuild(nil, nil, &failingBlob{BlobStore: env.store, failRemoveIfExists: true})

		result, bizErr := env.svc.PurgeAll(env.user.ID)
		require.Nil(t, bizErr)
		assert.Equal(t, 0, result.DeletedCount)
		require.Len(t, result.Errors, 1)

		// 失败项的行保留，之后还能重试
		count, err := env.trash.CountByUser(env.user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestHardDelete(t *testing.T) {
	env := newTestEnv(t)
	f := env.upload(t, "a.txt", "text/plain", "内容")

	_, bizErr := env.svc.CreateVersion(env.user.ID, f.ID, strings.NewReader("v1"), "")
	require.Nil(t, bizErr)

	require.Nil(t, env.svc.HardDelete(env.user.ID, f.ID))

	_, err := env.files.GetByID(env.user.ID, f.ID)
	assert.Error(t, err)
	versions, err := env.versions.ListByFile(f.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)
	_, err = os.Stat(f.Path)
	assert.True(t, os.IsNotExist(err))

	// 再次删除返回 NotFound
	bizErr2 := env.svc.HardDelete(env.user.ID, f.ID)
	require.NotNil(t, bizErr2)
	assert.Equal(t, response.KindNotFound, bizErr2.Kind)
}

// ===== 版本 =====

func TestVersionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	f := env.upload(t, "文档.txt", "text/plain", "当前内容")

	var versionIDs []uint
	for _, content := range []string{"v1", "v2", "v3"} {
		v, bizErr := env.svc.CreateVersion(env.user.ID, f.ID, strings.NewReader(content), "备注 "+content)
		require.Nil(t, bizErr)
		versionIDs = append(versionIDs, v.ID)
	}

	t.Run("版本号 1 到 N 严格递增", func(t *testing.T) {
		versions, err := env.versions.ListByFile(f.ID)
		require.NoError(t, err)
		require.Len(t, versions, 3)
		assert.Equal(t, 3, versions[0].VersionNumber)
		assert.Equal(t, 1, versions[2].VersionNumber)
	})

	t.Run("恢复历史版本覆盖活跃内容", func(t *testing.T) {
		require.Nil(t, env.svc.RestoreVersion(env.user.ID, f.ID, versionIDs[0]))

		assert.Equal(t, "v1", readFile(t, f.Path))
		got, err := env.files.GetByID(env.user.ID, f.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Size)

		// 备份文件已清理
		_, err = os.Stat(f.Path + ".bak")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("恢复之后创建新版本编号继续递增", func(t *testing.T) {
		v, bizErr := env.svc.CreateVersion(env.user.ID, f.ID, strings.NewReader("v4"), "")
		require.Nil(t, bizErr)
		assert.Equal(t, 4, v.VersionNumber)
	})

	t.Run("版本不存在返回 NotFound", func(t *testing.T) {
		bizErr := env.svc.RestoreVersion(env.user.ID, f.ID, 9999)
		require.NotNil(t, bizErr)
		assert.Equal(t, response.KindNotFound, bizErr.Kind)
	})
}

// ===== 行级小操作 =====

func TestTogglePin(t *testing.T) {
	env := newTestEnv(t)
	f := env.upload(t, "a.txt", "text/plain", "a")

	pinned, bizErr := env.svc.TogglePin(env.user.ID, f.ID)
	require.Nil(t, bizErr)
	assert.True(t, pinned)

	pinned, bizErr = env.svc.TogglePin(env.user.ID, f.ID)
	require.Nil(t, bizErr)
	assert.False(t, pinned)
}

func TestUpdateMetadata(t *testing.T) {
	env := newTestEnv(t)
	f := env.upload(t, "a.txt", "text/plain", "a")

	t.Run("语法合法的 JSON 被接受", func(t *testing.T) {
		require.Nil(t, env.svc.UpdateMetadata(env.user.ID, f.ID, `{"任意":"结构","n":1}`))

		got, err := env.files.GetByID(env.user.ID, f.ID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"任意":"结构","n":1}`, got.Metadata)
	})

	t.Run("语法非法的 JSON 被拒绝", func(t *testing.T) {
		bizErr := env.svc.UpdateMetadata(env.user.ID, f.ID, "{不是 json")
		require.NotNil(t, bizErr)
		assert.Equal(t, response.KindValidation, bizErr.Kind)
	})

	t.Run("文件不存在返回 NotFound", func(t *testing.T) {
		bizErr := env.svc.UpdateMetadata(env.user.ID, 9999, "{}")
		require.NotNil(t, bizErr)
		assert.Equal(t, response.KindNotFound, bizErr.Kind)
	})
}

func TestUpdateLyrics(t *testing.T) {
	env := newTestEnv(t)

	t.Run("音频文件可以添加歌词", func(t *testing.T) {
		f := env.upload(t, "歌.mp3", "audio/mpeg", "音频")
		require.Nil(t, env.svc.UpdateLyrics(env.user.ID, f.ID, "第一句歌词"))

		got, err := env.files.GetByID(env.user.ID, f.ID)
		require.NoError(t, err)
		assert.Equal(t, "第一句歌词", got.Lyrics)
	})

	t.Run("非音频文件被拒绝", func(t *testing.T) {
		f := env.upload(t, "a.txt", "text/plain", "文本")
		bizErr := env.svc.UpdateLyrics(env.user.ID, f.ID, "歌词")
		require.NotNil(t, bizErr)
		assert.Equal(t, response.KindValidation, bizErr.Kind)
	})
}

// ===== 文件夹类型兼容 =====

func TestFolderAccepts(t *testing.T) {
	tests := []struct {
		name       string
		folderType string
		mime       string
		want       bool
	}{
		{"笔记接受纯文本", "note", "text/plain", true},
		{"笔记接受 markdown", "note", "text/markdown", true},
		{"笔记拒绝音频", "note", "audio/mpeg", false},
		{"图片按前缀匹配", "image", "image/png", true},
		{"图片拒绝视频", "image", "video/mp4", false},
		{"音频按前缀匹配", "audio", "audio/flac", true},
		{"视频按前缀匹配", "video", "video/webm", true},
		{"文档接受 pdf", "document", "application/pdf", true},
		{"文档拒绝图片", "document", "image/png", false},
		{"other 接受任意类型", "other", "application/x-whatever", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, folderAccepts(tt.folderType, tt.mime))
		})
	}
}
