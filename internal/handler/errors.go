package handler

import (
	"errors"
	"net/http"

	"music-svc/internal/domain"

	"github.com/gin-gonic/gin"
)

// handleError 统一处理domain错误并返回适当的HTTP状态码
func handleError(c *gin.Context, err error) {
	switch {
	// 404 Not Found
	case errors.Is(err, domain.ErrHistoryNotFound),
		errors.Is(err, domain.ErrSongNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// 400 Bad Request
	case errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrInvalidSongID),
		errors.Is(err, domain.ErrInvalidPosition),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidLimit):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// 403 Forbidden
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	// 500 Internal Server Error (默认)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// actorFrom 从gin上下文提取认证层注入的请求方身份
func actorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID: c.GetString("user_id"),
		Role:   domain.Role(c.GetString("role")),
	}
}
