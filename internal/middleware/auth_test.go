package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myspace/storage-api/config"
	"myspace/storage-api/internal/testutils"
)

func TestJWTAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutils.SetupTestDB(t)
	u := testutils.CreateTestUser(t, db)
	cfg := &config.JWTConfig{Secret: "test-secret", ExpireTime: 1}

	r := gin.New()
	r.GET("/protected", JWTAuth(db, cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c)})
	})

	token, err := GenerateToken(cfg, u)
	require.NoError(t, err)

	t.Run("Bearer 头携带令牌", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("查询参数携带令牌", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("缺少令牌返回 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("无效令牌返回 403", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer 不是合法令牌")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("已注销用户的残留令牌返回 403", func(t *testing.T) {
		ghost := testutils.CreateTestUser(t, db, testutils.WithUserEmail("ghost@example.com"))
		ghostToken, err := GenerateToken(cfg, ghost)
		require.NoError(t, err)
		require.NoError(t, db.Exec("DELETE FROM users WHERE id = ?", ghost.ID).Error)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+ghostToken)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("错误密钥签发的令牌返回 403", func(t *testing.T) {
		badToken, err := GenerateToken(&config.JWTConfig{Secret: "other-secret", ExpireTime: 1}, u)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+badToken)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
