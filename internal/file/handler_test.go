package file

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myspace/storage-api/config"
	"myspace/storage-api/internal/blob"
	"myspace/storage-api/internal/folder"
	"myspace/storage-api/internal/lifecycle"
	"myspace/storage-api/internal/middleware"
	filemodel "myspace/storage-api/internal/model/file"
	"myspace/storage-api/internal/testutils"
)

type handlerEnv struct {
	router  *gin.Engine
	engine  *lifecycle.Service
	userID  uint
	folders *folder.Repository
	folder  uint
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutils.SetupTestDB(t)
	base := t.TempDir()
	store, err := blob.New(filepath.Join(base, "uploads"), filepath.Join(base, "trash"))
	require.NoError(t, err)

	u := testutils.CreateTestUser(t, db)
	fold := testutils.CreateTestFolder(t, db, u.ID)

	files := lifecycle.NewFileRepository(db)
	versions := lifecycle.NewVersionRepository(db)
	folders := folder.NewRepository(db)
	engine := lifecycle.NewService(files, lifecycle.NewTrashRepository(db), versions, folders, store, nil, nil)

	storage := &config.StorageConfig{MaxUploadSize: 1 << 20, MaxStoragePerUser: 1 << 30}
	h := NewHandler(engine, files, versions, storage, nil)

	r := gin.New()
	// 测试里直接注入认证结果
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, u.ID)
	})
	api := r.Group("/api")
	RegisterRoutes(api, h)

	return &handlerEnv{router: r, engine: engine, userID: u.ID, folders: folders, folder: fold.ID}
}

func (e *handlerEnv) upload(t *testing.T, name, mime, content string) *filemodel.File {
	t.Helper()
	f, bizErr := e.engine.CreateFromUpload(e.userID, e.folder, strings.NewReader(content), name, mime)
	require.Nil(t, bizErr)
	return f
}

func (e *handlerEnv) get(path string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	e.router.ServeHTTP(w, req)
	return w
}

func TestView(t *testing.T) {
	env := newHandlerEnv(t)
	content := strings.Repeat("x", 1000)
	f := env.upload(t, "视频.mp4", "video/mp4", content)

	t.Run("无 Range 返回完整内容", func(t *testing.T) {
		w := env.get("/api/files/"+itoa(f.ID)+"/view", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
		assert.Len(t, w.Body.String(), 1000)
	})

	t.Run("Range 100-199 返回 206 与 100 字节", func(t *testing.T) {
		w := env.get("/api/files/"+itoa(f.ID)+"/view", map[string]string{"Range": "bytes=100-199"})

		assert.Equal(t, http.StatusPartialContent, w.Code)
		assert.Equal(t, "bytes 100-199/1000", w.Header().Get("Content-Range"))
		assert.Equal(t, "100", w.Header().Get("Content-Length"))
		assert.Len(t, w.Body.String(), 100)
	})

	t.Run("Range 起点越界返回 416", func(t *testing.T) {
		w := env.get("/api/files/"+itoa(f.ID)+"/view", map[string]string{"Range": "bytes=5000-"})

		assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code)
		assert.Equal(t, "bytes */1000", w.Header().Get("Content-Range"))
	})

	t.Run("非流式类型忽略 Range 返回完整内容", func(t *testing.T) {
		doc := env.upload(t, "文档.txt", "text/plain", "完整文本内容")
		w := env.get("/api/files/"+itoa(doc.ID)+"/view", map[string]string{"Range": "bytes=0-1"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "完整文本内容", w.Body.String())
	})

	t.Run("行存在但字节缺失返回 404", func(t *testing.T) {
		ghost := env.upload(t, "幽灵.txt", "text/plain", "x")
		require.NoError(t, removeFile(ghost.Path))

		w := env.get("/api/files/"+itoa(ghost.ID)+"/view", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("文件不存在返回 404", func(t *testing.T) {
		w := env.get("/api/files/99999/view", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func removeFile(path string) error {
	return os.Remove(path)
}

func TestDownload(t *testing.T) {
	env := newHandlerEnv(t)
	f := env.upload(t, "报告.pdf", "application/pdf", "pdf 内容")

	w := env.get("/api/files/"+itoa(f.ID)+"/download", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "报告.pdf")
	assert.Equal(t, "pdf 内容", w.Body.String())
}
