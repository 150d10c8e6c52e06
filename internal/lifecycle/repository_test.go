package lifecycle

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	filemodel "myspace/storage-api/internal/model/file"
	"myspace/storage-api/internal/testutils"
)

func TestFileRepository(t *testing.T) {
	db := testutils.SetupTestDB(t)
	repo := NewFileRepository(db)

	owner := testutils.CreateTestUser(t, db)
	other := testutils.CreateTestUser(t, db, testutils.WithUserEmail("other@example.com"))
	fold := testutils.CreateTestFolder(t, db, owner.ID)

	t.Run("归属过滤", func(t *testing.T) {
		f := testutils.CreateTestFile(t, db, owner.ID, fold.ID)

		got, err := repo.GetByID(owner.ID, f.ID)
		require.NoError(t, err)
		assert.Equal(t, f.ID, got.ID)

		// 其他用户查询同一 ID 与记录不存在不可区分
		_, err = repo.GetByID(other.ID, f.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("GetNote 只匹配笔记类型", func(t *testing.T) {
		note := testutils.CreateTestFile(t, db, owner.ID, fold.ID,
			testutils.WithFileType("text/plain"))
		audio := testutils.CreateTestFile(t, db, owner.ID, fold.ID,
			testutils.WithFileType("audio/mpeg"))

		_, err := repo.GetNote(owner.ID, note.ID)
		assert.NoError(t, err)

		_, err = repo.GetNote(owner.ID, audio.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("Delete 返回受影响行数", func(t *testing.T) {
		f := testutils.CreateTestFile(t, db, owner.ID, fold.ID)

		rows, err := repo.Delete(other.ID, f.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows)

		rows, err = repo.Delete(owner.ID, f.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)
	})

	t.Run("置顶优先排序", func(t *testing.T) {
		listFold := testutils.CreateTestFolder(t, db, owner.ID, testutils.WithFolderName("列表"))
		a := testutils.CreateTestFile(t, db, owner.ID, listFold.ID, testutils.WithFileName("a"))
		b := testutils.CreateTestFile(t, db, owner.ID, listFold.ID, testutils.WithFileName("b"))
		require.NoError(t, repo.SetPinned(b.ID, true))

		files, err := repo.ListByFolder(owner.ID, listFold.ID, "name", "ASC")
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, b.ID, files[0].ID)
		assert.Equal(t, a.ID, files[1].ID)
	})

	t.Run("TotalSize 按用户汇总", func(t *testing.T) {
		sizeFold := testutils.CreateTestFolder(t, db, other.ID)
		testutils.CreateTestFile(t, db, other.ID, sizeFold.ID, testutils.WithFileSize(100))
		testutils.CreateTestFile(t, db, other.ID, sizeFold.ID, testutils.WithFileSize(200))

		total, err := repo.TotalSize(other.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(300), total)

		// 没有任何文件的用户
		empty := testutils.CreateTestUser(t, db, testutils.WithUserEmail("empty@example.com"))
		total, err = repo.TotalSize(empty.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})
}

func TestVersionRepositoryCreateNext(t *testing.T) {
	db := testutils.SetupTestDB(t)
	repo := NewVersionRepository(db)

	owner := testutils.CreateTestUser(t, db)
	fold := testutils.CreateTestFolder(t, db, owner.ID)
	f := testutils.CreateTestFile(t, db, owner.ID, fold.ID)

	t.Run("版本号从 1 开始严格递增", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			v := &filemodel.FileVersion{
				FileID:    f.ID,
				Path:      fmt.Sprintf("/versions/v%d", i),
				Size:      int64(i),
				CreatedBy: owner.ID,
				CreatedAt: time.Now(),
			}
			require.NoError(t, repo.CreateNext(v))
			assert.Equal(t, i, v.VersionNumber)
			assert.NotZero(t, v.ID)
		}
	})

	t.Run("不同文件各自独立编号", func(t *testing.T) {
		g := testutils.CreateTestFile(t, db, owner.ID, fold.ID, testutils.WithFileName("另一个"))
		v := &filemodel.FileVersion{
			FileID:    g.ID,
			Path:      "/versions/g1",
			CreatedBy: owner.ID,
			CreatedAt: time.Now(),
		}
		require.NoError(t, repo.CreateNext(v))
		assert.Equal(t, 1, v.VersionNumber)
	})

	t.Run("列表带创建者名称按版本号倒序", func(t *testing.T) {
		versions, err := repo.ListByFile(f.ID)
		require.NoError(t, err)
		require.Len(t, versions, 3)
		assert.Equal(t, 3, versions[0].VersionNumber)
		assert.Equal(t, owner.Name, versions[0].CreatedByName)
	})

	t.Run("DeleteByFile 清空版本", func(t *testing.T) {
		require.NoError(t, repo.DeleteByFile(f.ID))
		versions, err := repo.ListByFile(f.ID)
		require.NoError(t, err)
		assert.Empty(t, versions)
	})
}

func TestTrashRepository(t *testing.T) {
	db := testutils.SetupTestDB(t)
	repo := NewTrashRepository(db)

	owner := testutils.CreateTestUser(t, db)
	other := testutils.CreateTestUser(t, db, testutils.WithUserEmail("other@example.com"))
	fold := testutils.CreateTestFolder(t, db, owner.ID)
	f := testutils.CreateTestFile(t, db, owner.ID, fold.ID)

	item := &filemodel.Trash{
		OriginalID:   f.ID,
		UserID:       owner.ID,
		FolderID:     fold.ID,
		Name:         f.Name,
		Type:         f.Type,
		Path:         "/trash/abc.txt",
		OriginalPath: f.Path,
	}
	require.NoError(t, repo.Create(item))

	t.Run("归属过滤", func(t *testing.T) {
		_, err := repo.GetByID(owner.ID, item.ID)
		assert.NoError(t, err)

		_, err = repo.GetByID(other.ID, item.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("计数", func(t *testing.T) {
		count, err := repo.CountByUser(owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = repo.CountByUser(other.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Delete 返回受影响行数", func(t *testing.T) {
		rows, err := repo.Delete(item.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		rows, err = repo.Delete(item.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows)
	})
}
