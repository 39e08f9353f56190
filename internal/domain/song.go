package domain

import (
	"time"

	"github.com/google/uuid"
)

// Song 歌曲实体
type Song struct {
	ID        string    `json:"id"`         // UUID
	Title     string    `json:"title"`      // 标题
	Slug      string    `json:"slug"`       // 可读别名（唯一）
	CoverURL  string    `json:"cover_url"`  // 封面URL
	AudioURL  string    `json:"audio_url"`  // 音频URL
	Duration  float64   `json:"duration"`   // 时长（秒）
	Plays     int64     `json:"plays"`      // 全局播放计数
	CreatorID string    `json:"creator_id"` // 创作者ID
	Creator   *User     `json:"creator,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SongSummary 歌曲摘要（用于历史/榜单的嵌套展示）
type SongSummary struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Slug     string       `json:"slug"`
	CoverURL string       `json:"cover_url,omitempty"`
	AudioURL string       `json:"audio_url,omitempty"`
	Duration float64      `json:"duration,omitempty"`
	Creator  *UserSummary `json:"creator"`
}

// Summary 返回歌曲摘要
func (s *Song) Summary() *SongSummary {
	if s == nil {
		return nil
	}
	return &SongSummary{
		ID:       s.ID,
		Title:    s.Title,
		Slug:     s.Slug,
		CoverURL: s.CoverURL,
		AudioURL: s.AudioURL,
		Duration: s.Duration,
		Creator:  s.Creator.Summary(),
	}
}

// IsSongID 判断给定字符串是否为规范 8-4-4-4-12 UUID形式；否则按slug处理
func IsSongID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
