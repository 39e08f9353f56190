package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"music-svc/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery 中间件 - 捕获panic并返回500
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(c)

				log.Error("Panic recovered",
					logger.F("request_id", requestID),
					logger.F("method", c.Request.Method),
					logger.F("path", c.Request.URL.Path),
					logger.F("ip", c.ClientIP()),
					logger.F("panic", fmt.Sprintf("%v", err)),
					logger.F("stack", string(debug.Stack())),
				)

				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "Internal server error",
					},
					"request_id": requestID,
				})

				c.Abort()
			}
		}()

		c.Next()
	}
}
