package domain

import "time"

// 聚合查询的原始结果行。SQL层所有SUM/COUNT/AVG均以COALESCE兜底，
// 空结果集返回全零行而不是错误。

// UserStatsRow 单用户聚合统计
type UserStatsRow struct {
	UniqueSongs    int64
	TotalPlays     int64
	TotalDuration  float64
	CompletedSongs int64
}

// GlobalOverviewRow 全局概览聚合
type GlobalOverviewRow struct {
	UniqueListeners   int64
	UniqueSongsPlayed int64
	TotalPlays        int64
	TotalDuration     float64
}

// WindowStatsRow 时间窗口内的听众/播放聚合
type WindowStatsRow struct {
	Listeners int64
	Plays     int64
}

// SongAggRow 按歌曲分组的播放聚合
type SongAggRow struct {
	SongID          string
	TotalPlays      int64
	UniqueListeners int64
}

// ListenerAggRow 按用户分组的播放聚合
type ListenerAggRow struct {
	UserID        string
	TotalPlays    int64
	TotalDuration float64
	UniqueSongs   int64
}

// TrendPoint 按日分桶的播放趋势
type TrendPoint struct {
	Date      time.Time `json:"date"`
	Plays     int64     `json:"plays"`
	Listeners int64     `json:"listeners"`
}

// SongStatsRow 单歌曲聚合统计
type SongStatsRow struct {
	UniqueListeners int64
	TotalPlays      int64
	TotalDuration   float64
	AvgCompletion   float64
}
