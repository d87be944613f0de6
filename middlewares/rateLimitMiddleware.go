package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dshank05/nextjs-sub001/config"
	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware counts requests per client ip in fixed redis windows.
func RateLimitMiddleware(limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := config.IncrRedisWindow(c.Request.Context(), "RateLimit:"+c.ClientIP(), window)
		if err != nil {
			config.LogError(config.GetLogger(), "middlewares", "RateLimitMiddleware", "IncrRedisWindow", c.ClientIP(), err)
			c.Next()
			return
		}
		if count > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "too_many_requests",
				"message": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(window.Seconds())),
			})
			return
		}
		c.Next()
	}
}
