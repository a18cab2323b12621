// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-ops-api/pkg/logger"
	"blog-ops-api/pkg/utils"
)

// AuthConfig 认证配置
type AuthConfig struct {
	// Secret JWT 密钥
	Secret string
	// Issuer JWT 签发者
	Issuer string
	// SkipPaths 跳过认证的路径
	SkipPaths []string
	// Enabled 是否启用认证
	Enabled bool
}

// Auth 编辑者认证中间件
func Auth(cfg AuthConfig) gin.HandlerFunc {
	jwtManager := utils.NewJWTManager(cfg.Secret, cfg.Issuer)

	skipMap := make(map[string]bool)
	for _, path := range cfg.SkipPaths {
		skipMap[path] = true
	}

	return func(c *gin.Context) {
		// 未启用认证时直接放行（单人本地运行的常见形态）
		if !cfg.Enabled {
			c.Next()
			return
		}

		if skipMap[c.Request.URL.Path] {
			c.Next()
			return
		}
		for path := range skipMap {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		claims, err := jwtManager.ParseToken(parts[1])
		if err != nil {
			msg := "invalid token"
			if err == utils.ErrExpiredToken {
				msg = "token expired"
			}
			abortUnauthorized(c, msg)
			return
		}

		if claims.Type != "access" {
			abortUnauthorized(c, "invalid token type")
			return
		}

		// 注入编辑者信息到 Context
		c.Set("editor_id", claims.EditorID)
		c.Set("role", claims.Role)

		ctx := logger.WithContext(c.Request.Context(), logger.EditorIDKey, claims.EditorID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// abortUnauthorized 终止请求并返回 401
func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":     401,
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}
