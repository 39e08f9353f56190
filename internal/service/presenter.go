package service

import (
	"fmt"
	"time"

	"music-svc/internal/domain"
)

// HistoryEntry 历史记录响应形态（含嵌套歌曲摘要与格式化时长）
type HistoryEntry struct {
	ID                     string              `json:"id,omitempty"`
	SongID                 string              `json:"song_id"`
	Song                   *domain.SongSummary `json:"song"`
	PlayCount              int64               `json:"play_count"`
	TotalListenedDuration  float64             `json:"total_listened_duration"`
	TotalListenedFormatted string              `json:"total_listened_formatted"`
	LastPosition           float64             `json:"last_position"`
	SongDuration           *float64            `json:"song_duration,omitempty"`
	Completed              bool                `json:"completed"`
	LastListenedAt         *time.Time          `json:"last_listened_at,omitempty"`
}

// PageMeta 分页元信息
type PageMeta struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// HistoryPage 分页的历史列表
type HistoryPage struct {
	Data []*HistoryEntry `json:"data"`
	Meta PageMeta        `json:"meta"`
}

// SyncResult 批量同步结果
type SyncResult struct {
	Synced  int             `json:"synced"`
	History []*HistoryEntry `json:"history"`
}

// UserStats 单用户收听统计
type UserStats struct {
	UniqueSongs            int64           `json:"unique_songs"`
	TotalPlays             int64           `json:"total_plays"`
	TotalDuration          float64         `json:"total_duration"`
	TotalDurationFormatted string          `json:"total_duration_formatted"`
	CompletedSongs         int64           `json:"completed_songs"`
	TopSongs               []*HistoryEntry `json:"top_songs"`
	RecentlyPlayed         []*HistoryEntry `json:"recently_played"`
}

// TopSong 全局歌曲榜单条目
type TopSong struct {
	SongID          string              `json:"song_id"`
	TotalPlays      int64               `json:"total_plays"`
	UniqueListeners int64               `json:"unique_listeners"`
	Song            *domain.SongSummary `json:"song"`
}

// TopListener 全局听众榜单条目
type TopListener struct {
	UserID                 string              `json:"user_id"`
	TotalPlays             int64               `json:"total_plays"`
	TotalDuration          float64             `json:"total_duration"`
	TotalDurationFormatted string              `json:"total_duration_formatted"`
	UniqueSongs            int64               `json:"unique_songs"`
	User                   *domain.UserSummary `json:"user,omitempty"`
}

// GlobalAnalytics 全局收听分析
type GlobalAnalytics struct {
	Overview     GlobalOverview       `json:"overview"`
	Today        TodayStats           `json:"today"`
	ThisWeek     WeekStats            `json:"this_week"`
	TopSongs     []*TopSong           `json:"top_songs"`
	TopListeners []*TopListener       `json:"top_listeners"`
	Trends       []*domain.TrendPoint `json:"trends"`
}

// GlobalOverview 全局概览
type GlobalOverview struct {
	UniqueListeners        int64   `json:"unique_listeners"`
	UniqueSongsPlayed      int64   `json:"unique_songs_played"`
	TotalPlays             int64   `json:"total_plays"`
	TotalDuration          float64 `json:"total_duration"`
	TotalDurationFormatted string  `json:"total_duration_formatted"`
}

// TodayStats 当日统计
type TodayStats struct {
	ActiveListeners int64 `json:"active_listeners"`
	Plays           int64 `json:"plays"`
}

// WeekStats 近7日统计
type WeekStats struct {
	Listeners int64 `json:"listeners"`
	Plays     int64 `json:"plays"`
}

// RecentListener 歌曲的最近听众条目
type RecentListener struct {
	UserID         string     `json:"user_id"`
	PlayCount      int64      `json:"play_count"`
	LastListenedAt *time.Time `json:"last_listened_at"`
}

// SongAnalytics 单歌曲收听分析
type SongAnalytics struct {
	SongID                 string            `json:"song_id"`
	UniqueListeners        int64             `json:"unique_listeners"`
	TotalPlays             int64             `json:"total_plays"`
	TotalDuration          float64           `json:"total_duration"`
	TotalDurationFormatted string            `json:"total_duration_formatted"`
	AvgCompletionRate      float64           `json:"avg_completion_rate"`
	RecentListeners        []*RecentListener `json:"recent_listeners"`
}

// FormatDuration 秒数转可读时长: 有小时"Xh Ym"，否则"Ym Zs"
func FormatDuration(seconds float64) string {
	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm %ds", minutes, secs)
}

// NewHistoryEntry 将实体转换为响应形态
func NewHistoryEntry(h *domain.ListeningHistory) *HistoryEntry {
	return &HistoryEntry{
		ID:                     h.ID,
		SongID:                 h.SongID,
		Song:                   h.Song.Summary(),
		PlayCount:              h.PlayCount,
		TotalListenedDuration:  h.TotalListenedDuration,
		TotalListenedFormatted: FormatDuration(h.TotalListenedDuration),
		LastPosition:           h.LastPosition,
		SongDuration:           h.SongDuration,
		Completed:              h.Completed,
		LastListenedAt:         h.LastListenedAt,
	}
}

// emptyHistoryEntry 无记录时的零值形态（解析失败不报错，返回可恢复的默认态）
func emptyHistoryEntry(songID string) *HistoryEntry {
	return &HistoryEntry{
		SongID:                 songID,
		TotalListenedFormatted: FormatDuration(0),
	}
}

func newHistoryEntries(histories []*domain.ListeningHistory) []*HistoryEntry {
	entries := make([]*HistoryEntry, 0, len(histories))
	for _, h := range histories {
		entries = append(entries, NewHistoryEntry(h))
	}
	return entries
}
