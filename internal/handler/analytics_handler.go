package handler

import (
	"net/http"
	"strconv"

	"music-svc/internal/service"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler 收听分析处理器（管理端接口挂RequireRole(admin)）
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler 创建分析处理器
func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GetUserStats 个人收听统计 GET /history/stats
func (h *AnalyticsHandler) GetUserStats(c *gin.Context) {
	stats, err := h.service.GetUserStats(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetGlobalAnalytics 全局收听分析（排除管理员） GET /history/admin/analytics
func (h *AnalyticsHandler) GetGlobalAnalytics(c *gin.Context) {
	analytics, err := h.service.GetGlobalAnalytics(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// GetSongAnalytics 单歌曲分析 GET /history/admin/song/:songId
func (h *AnalyticsHandler) GetSongAnalytics(c *gin.Context) {
	analytics, err := h.service.GetSongAnalytics(c.Request.Context(), c.Param("songId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// GetTopSongs 歌曲榜单（全量口径，含管理员播放） GET /history/admin/top-songs
func (h *AnalyticsHandler) GetTopSongs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	songs, err := h.service.GetTopSongs(c.Request.Context(), limit, false)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, songs)
}

// GetTopListeners 听众榜单（全量口径） GET /history/admin/top-listeners
func (h *AnalyticsHandler) GetTopListeners(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	listeners, err := h.service.GetTopListeners(c.Request.Context(), limit, false)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, listeners)
}
