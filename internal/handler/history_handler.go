package handler

import (
	"net/http"
	"strconv"

	"music-svc/internal/service"

	"github.com/gin-gonic/gin"
)

// HistoryHandler 收听历史处理器
type HistoryHandler struct {
	service *service.HistoryService
}

// NewHistoryHandler 创建收听历史处理器
func NewHistoryHandler(service *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// UpdateHistory 更新播放进度 POST /history/update
func (h *HistoryHandler) UpdateHistory(c *gin.Context) {
	var req service.UpdateHistoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.service.UpdateHistory(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// SyncHistory 批量同步播放事件 POST /history/sync
func (h *HistoryHandler) SyncHistory(c *gin.Context) {
	var req service.SyncHistoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.SyncHistory(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// LogPlay 记录单次播放（不增加歌曲全局计数） POST /history/log-play
func (h *HistoryHandler) LogPlay(c *gin.Context) {
	var req service.LogPlayInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.service.LogPlayOnly(c.Request.Context(), c.GetString("user_id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	// slug未命中时为静默no-op
	c.JSON(http.StatusOK, entry)
}

// GetUserHistory 分页获取个人历史 GET /history
func (h *HistoryHandler) GetUserHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.service.GetUserHistory(c.Request.Context(), c.GetString("user_id"), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetSongHistory 获取单首歌曲的历史（断点续播） GET /history/song/:songId
func (h *HistoryHandler) GetSongHistory(c *gin.Context) {
	entry, err := h.service.GetSongHistory(c.Request.Context(), c.GetString("user_id"), c.Param("songId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetSongsHistory 批量获取多首歌曲的历史 POST /history/songs
func (h *HistoryHandler) GetSongsHistory(c *gin.Context) {
	var req struct {
		SongIDs []string `json:"song_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.service.GetSongsHistory(c.Request.Context(), c.GetString("user_id"), req.SongIDs)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ClearHistory 清空个人历史 DELETE /history
func (h *HistoryHandler) ClearHistory(c *gin.Context) {
	if err := h.service.ClearHistory(c.Request.Context(), c.GetString("user_id")); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveFromHistory 从历史移除单首歌曲 DELETE /history/song/:songId
func (h *HistoryHandler) RemoveFromHistory(c *gin.Context) {
	if err := h.service.RemoveFromHistory(c.Request.Context(), c.GetString("user_id"), c.Param("songId")); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
