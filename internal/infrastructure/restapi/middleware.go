package restapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ZapLoggerMiddleware logs every request through zap once it has been served.
func ZapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.Int("size", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			log.Error("Request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		if c.Writer.Status() >= 500 {
			log.Warn("Request served with server error", fields...)
			return
		}
		log.Info("Request served", fields...)
	}
}
