// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-ops-api/internal/infrastructure/persistence/redis"
	"blog-ops-api/pkg/logger"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond int
	Burst             int
}

// RateLimit 基于 Redis 滑动窗口的限流中间件
//
// 按编辑者限流；未认证请求按客户端 IP 限流。限流器本身故障时放行，
// 可用性优先于限流精度。
func RateLimit(cfg RateLimitConfig, limiter *redis.RateLimiter) gin.HandlerFunc {
	limit := cfg.RequestsPerSecond
	if cfg.Burst > limit {
		limit = cfg.Burst
	}

	return func(c *gin.Context) {
		if !cfg.Enabled || limiter == nil {
			c.Next()
			return
		}

		actor := c.GetString("editor_id")
		if actor == "" {
			actor = c.ClientIP()
		}
		key := redis.BuildRateLimitKey(actor, c.FullPath())

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, time.Second)
		if err != nil {
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     429,
				"message":  "too many requests",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}
