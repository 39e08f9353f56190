package handler

import (
	"net/http"

	"music-svc/internal/service"

	"github.com/gin-gonic/gin"
)

// SongHandler 歌曲处理器（历史核心的协作面）
type SongHandler struct {
	service *service.SongService
}

// NewSongHandler 创建歌曲处理器
func NewSongHandler(service *service.SongService) *SongHandler {
	return &SongHandler{service: service}
}

// GetSong 按ID或slug获取歌曲 GET /songs/:idOrSlug
func (h *SongHandler) GetSong(c *gin.Context) {
	song, err := h.service.GetSong(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

// LogSongPlay 歌曲全局播放计数+1 POST /songs/:idOrSlug/play
// 与 /history/log-play 配对使用，避免重复计数
func (h *SongHandler) LogSongPlay(c *gin.Context) {
	song, err := h.service.LogSongPlay(c.Request.Context(), actorFrom(c), c.Param("idOrSlug"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "plays": song.Plays})
}
