package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger returns a zap-based request logging middleware. The tenant ID is
// included once authentication has resolved it.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("method", method),
			zap.String("path", path),
			zap.String("client_ip", c.ClientIP()),
		}
		if tenantID, ok := c.Get("tenant_id"); ok {
			if id, ok := tenantID.(int64); ok {
				fields = append(fields, zap.Int64("tenant_id", id))
			}
		}
		logger.Info("request", fields...)
	}
}
