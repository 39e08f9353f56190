package domain

import "time"

// CompletionThresholdPercent 完成判定阈值：最后位置达到歌曲时长的90%
const CompletionThresholdPercent = 90.0

// ListeningHistory 收听历史实体
// 约束: (user_id, song_id) 唯一，每对用户-歌曲最多一条记录
type ListeningHistory struct {
	ID                    string     `json:"id"`                      // UUID
	UserID                string     `json:"user_id"`                 // 用户ID
	SongID                string     `json:"song_id"`                 // 歌曲ID
	PlayCount             int64      `json:"play_count"`              // 个人播放次数（只增不减）
	TotalListenedDuration float64    `json:"total_listened_duration"` // 累计收听时长（秒，只增不减）
	LastPosition          float64    `json:"last_position"`           // 最近播放位置（秒，整体覆盖）
	SongDuration          *float64   `json:"song_duration"`           // 缓存的歌曲时长（秒，可空）
	Completed             bool       `json:"completed"`               // 完成标记（置真后不再回退）
	LastListenedAt        *time.Time `json:"last_listened_at"`        // 最近收听时间
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	Song *Song `json:"song,omitempty"` // 关联歌曲（按需加载）
	User *User `json:"user,omitempty"` // 关联用户（按需加载）
}

// CompletionReached 判断给定位置/时长是否达到完成阈值
func CompletionReached(position float64, duration *float64) bool {
	if duration == nil || *duration <= 0 || position <= 0 {
		return false
	}
	return position / *duration * 100 >= CompletionThresholdPercent
}

// PlaybackUpdate 一次播放进度上报对历史记录的增量变更
// 计数字段为增量（可交换可结合），位置类字段为最终值覆盖
type PlaybackUpdate struct {
	UserID         string
	SongID         string
	Position       float64  // 覆盖 last_position
	SongDuration   *float64 // 非空时覆盖 song_duration
	ListenedDelta  float64  // 累加到 total_listened_duration
	PlayCountDelta int64    // 累加到 play_count
	SongPlaysDelta int64    // 累加到歌曲全局播放计数（管理员播放时为0）
}

// Validate 验证播放进度上报
func (u *PlaybackUpdate) Validate() error {
	if u.UserID == "" {
		return ErrInvalidUserID
	}
	if u.SongID == "" {
		return ErrInvalidSongID
	}
	if u.Position < 0 {
		return ErrInvalidPosition
	}
	if u.ListenedDelta < 0 || u.PlayCountDelta < 0 || u.SongPlaysDelta < 0 {
		return ErrInvalidDuration
	}
	return nil
}
