package middleware

import (
	"minisocial/internal/adapters/httpapi/response"
	"minisocial/internal/apperror"
	"minisocial/internal/metrics"
	"minisocial/internal/ports/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware counts requests per user (or per client IP when
// anonymous). A nil limiter disables it; limiter errors let the request
// through.
func RateLimitMiddleware(limiter ratelimit.Limiter, logger *zap.Logger) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if u, ok := CurrentUser(c); ok {
			key = "user:" + u.ID.String()
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			metrics.RecordRateLimited()
			response.Abort(c, apperror.RateLimited("too many requests"))
			return
		}
		c.Next()
	}
}
