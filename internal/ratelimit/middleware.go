package ratelimit

import (
	"earn-server/internal/auth/telegram"
	"earn-server/internal/observability"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware limits requests per authenticated user. It must run after the
// initData middleware; requests without a user pass through.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := telegram.UserID(c)
		if !ok {
			c.Next()
			return
		}

		ctx := observability.WithFields(c.Request.Context(),
			observability.Field{Key: "user_id", Value: userID},
			observability.Field{Key: "rate_limit_rpm", Value: s.requestsPerMinute},
		)

		result := s.CheckRateLimit(ctx, userID)

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetAt.Unix()))

		if !result.Allowed {
			retryAfter := (result.RetryAfterMs + 999) / 1000
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			s.logger.Warn(ctx, "rate limit exceeded")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"code":        "RATE_LIMIT_EXCEEDED",
				"limit":       result.Limit,
				"retry_after": retryAfter,
				"reset_at":    result.ResetAt.Unix(),
			})
			return
		}

		c.Next()
	}
}
