package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/limiter"
)

// RateLimiter throttles routes that carry a bucket rule.
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.Key(c)
		if bucket, ok := l.GetBucket(key); ok {
			count := bucket.TakeAvailable(1)
			if count == 0 {
				response := app.NewResponse(c)
				response.ToResponse(code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
