// Package middleware gin 中间件集合
package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"myspace/storage-api/config"
	usermodel "myspace/storage-api/internal/model/user"
	"myspace/storage-api/internal/response"
)

const ContextUserIDKey = "user_id"

// Claims JWT 负载
type Claims struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken 为用户签发 JWT
func GenerateToken(cfg *config.JWTConfig, u *usermodel.User) (string, error) {
	claims := Claims{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.ExpireTime) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseToken 解析并校验 JWT
func ParseToken(cfg *config.JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// JWTAuth 认证中间件。
// 令牌来自 Authorization: Bearer 头或 token 查询参数（媒体标签无法带头）。
// 缺少令牌返回 401，令牌无效或用户已注销返回 403。
func JWTAuth(db *gorm.DB, cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.Error(c, response.NewUnauthorizedError("缺少认证令牌"))
			c.Abort()
			return
		}

		claims, err := ParseToken(cfg, tokenString)
		if err != nil {
			response.Error(c, response.NewForbiddenError("认证令牌无效或已过期"))
			c.Abort()
			return
		}

		// 确认用户仍然存在，避免已注销账号的残留令牌继续生效
		var count int64
		if err := db.Model(&usermodel.User{}).Where("id = ?", claims.UserID).Count(&count).Error; err != nil {
			response.Error(c, response.NewDatabaseError(err))
			c.Abort()
			return
		}
		if count == 0 {
			response.Error(c, response.NewForbiddenError("用户不存在"))
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok && after != "" {
		return after
	}
	return c.Query("token")
}

// CurrentUserID 从上下文取出认证后的用户 ID
func CurrentUserID(c *gin.Context) uint {
	if v, exists := c.Get(ContextUserIDKey); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
