package middleware

import (
	"time"

	"music-svc/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Logging 中间件 - 结构化请求日志
func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		fields := []logger.Field{
			logger.F("request_id", GetRequestID(c)),
			logger.F("method", c.Request.Method),
			logger.F("path", path),
			logger.F("query", query),
			logger.F("status", statusCode),
			logger.F("ip", c.ClientIP()),
			logger.F("latency_ms", latency.Milliseconds()),
		}

		if userID := c.GetString("user_id"); userID != "" {
			fields = append(fields, logger.F("user_id", userID))
		}

		if statusCode >= 500 {
			if len(c.Errors) > 0 {
				fields = append(fields, logger.F("error", c.Errors.String()))
			}
			log.Error("HTTP request failed with server error", fields...)
		} else if statusCode >= 400 {
			log.Warn("HTTP request failed with client error", fields...)
		} else {
			log.Info("HTTP request completed", fields...)
		}
	}
}
