package service

import (
	"context"
	"encoding/json"
	"time"

	"music-svc/internal/domain"
	"music-svc/internal/repository"

	"music-svc/pkg/redis"
)

const (
	// DefaultTopLimit 榜单默认条数
	DefaultTopLimit = 10
	// RecentListenersLimit 单歌曲最近听众条数
	RecentListenersLimit = 20
	// globalAnalyticsTTL 全局分析缓存时长
	globalAnalyticsTTL = 5 * time.Minute
	// userStatsTTL 个人统计缓存时长（短，写入后很快可见）
	userStatsTTL = time.Minute
	// songAnalyticsTTL 单歌曲分析缓存时长
	songAnalyticsTTL = time.Minute
)

// AnalyticsCache 全局分析结果的缓存接口（redis实现见 pkg/redis）
type AnalyticsCache interface {
	GetBytes(ctx context.Context, key string, loader func() ([]byte, error), ttl time.Duration) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// AnalyticsService 收听数据聚合分析服务
// 面向听众的指标统一排除管理员；榜单接口的排除策略由显式参数控制
type AnalyticsService struct {
	historyRepo repository.ListeningHistoryRepository
	songRepo    repository.SongRepository
	userRepo    repository.UserRepository
	cache       AnalyticsCache // 可为nil，nil时直接计算
}

// NewAnalyticsService 创建分析服务
func NewAnalyticsService(
	historyRepo repository.ListeningHistoryRepository,
	songRepo repository.SongRepository,
	userRepo repository.UserRepository,
	cache AnalyticsCache,
) *AnalyticsService {
	return &AnalyticsService{
		historyRepo: historyRepo,
		songRepo:    songRepo,
		userRepo:    userRepo,
		cache:       cache,
	}
}

// GetUserStats 单用户收听统计（个人数据，不做角色过滤），短TTL缓存
func (s *AnalyticsService) GetUserStats(ctx context.Context, userID string) (*UserStats, error) {
	if s.cache == nil {
		return s.computeUserStats(ctx, userID)
	}

	data, err := s.cache.GetBytes(ctx, redis.UserStatsKey(userID), func() ([]byte, error) {
		stats, err := s.computeUserStats(ctx, userID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(stats)
	}, userStatsTTL)
	if err != nil {
		return nil, err
	}

	var stats UserStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *AnalyticsService) computeUserStats(ctx context.Context, userID string) (*UserStats, error) {
	row, err := s.historyRepo.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	topSongs, err := s.historyRepo.ListByUserByPlayCount(ctx, userID, DefaultTopLimit)
	if err != nil {
		return nil, err
	}
	recentlyPlayed, err := s.historyRepo.ListByUser(ctx, userID, DefaultTopLimit, 0)
	if err != nil {
		return nil, err
	}
	if err := s.attachSongs(ctx, topSongs); err != nil {
		return nil, err
	}
	if err := s.attachSongs(ctx, recentlyPlayed); err != nil {
		return nil, err
	}

	return &UserStats{
		UniqueSongs:            row.UniqueSongs,
		TotalPlays:             row.TotalPlays,
		TotalDuration:          row.TotalDuration,
		TotalDurationFormatted: FormatDuration(row.TotalDuration),
		CompletedSongs:         row.CompletedSongs,
		TopSongs:               newHistoryEntries(topSongs),
		RecentlyPlayed:         newHistoryEntries(recentlyPlayed),
	}, nil
}

// GetGlobalAnalytics 全局收听分析（全部排除管理员），短TTL缓存
// 空数据返回零值结构而不是错误
func (s *AnalyticsService) GetGlobalAnalytics(ctx context.Context) (*GlobalAnalytics, error) {
	if s.cache == nil {
		return s.computeGlobalAnalytics(ctx)
	}

	data, err := s.cache.GetBytes(ctx, redis.GlobalAnalyticsKey(), func() ([]byte, error) {
		analytics, err := s.computeGlobalAnalytics(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(analytics)
	}, globalAnalyticsTTL)
	if err != nil {
		return nil, err
	}

	var analytics GlobalAnalytics
	if err := json.Unmarshal(data, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

// RefreshGlobalAnalytics 重算全局分析并覆写缓存（由定时任务调用）
func (s *AnalyticsService) RefreshGlobalAnalytics(ctx context.Context) error {
	analytics, err := s.computeGlobalAnalytics(ctx)
	if err != nil {
		return err
	}
	if s.cache == nil {
		return nil
	}
	data, err := json.Marshal(analytics)
	if err != nil {
		return err
	}
	return s.cache.SetBytes(ctx, redis.GlobalAnalyticsKey(), data, globalAnalyticsTTL)
}

func (s *AnalyticsService) computeGlobalAnalytics(ctx context.Context) (*GlobalAnalytics, error) {
	overview, err := s.historyRepo.GlobalOverview(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	todayStats, err := s.historyRepo.WindowStats(ctx, startOfToday)
	if err != nil {
		return nil, err
	}
	weekStats, err := s.historyRepo.WindowStats(ctx, weekAgo)
	if err != nil {
		return nil, err
	}

	topSongs, err := s.topSongs(ctx, DefaultTopLimit, true)
	if err != nil {
		return nil, err
	}
	topListeners, err := s.topListeners(ctx, DefaultTopLimit, true, true)
	if err != nil {
		return nil, err
	}

	trends, err := s.historyRepo.DailyTrends(ctx, weekAgo)
	if err != nil {
		return nil, err
	}
	if trends == nil {
		trends = []*domain.TrendPoint{}
	}

	return &GlobalAnalytics{
		Overview: GlobalOverview{
			UniqueListeners:        overview.UniqueListeners,
			UniqueSongsPlayed:      overview.UniqueSongsPlayed,
			TotalPlays:             overview.TotalPlays,
			TotalDuration:          overview.TotalDuration,
			TotalDurationFormatted: FormatDuration(overview.TotalDuration),
		},
		Today: TodayStats{
			ActiveListeners: todayStats.Listeners,
			Plays:           todayStats.Plays,
		},
		ThisWeek: WeekStats{
			Listeners: weekStats.Listeners,
			Plays:     weekStats.Plays,
		},
		TopSongs:     topSongs,
		TopListeners: topListeners,
		Trends:       trends,
	}, nil
}

// GetSongAnalytics 单歌曲分析（歌曲维度，不做角色过滤），短TTL缓存
// 无任何历史的歌曲返回全零结构
func (s *AnalyticsService) GetSongAnalytics(ctx context.Context, songID string) (*SongAnalytics, error) {
	if s.cache == nil {
		return s.computeSongAnalytics(ctx, songID)
	}

	data, err := s.cache.GetBytes(ctx, redis.SongAnalyticsKey(songID), func() ([]byte, error) {
		analytics, err := s.computeSongAnalytics(ctx, songID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(analytics)
	}, songAnalyticsTTL)
	if err != nil {
		return nil, err
	}

	var analytics SongAnalytics
	if err := json.Unmarshal(data, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

func (s *AnalyticsService) computeSongAnalytics(ctx context.Context, songID string) (*SongAnalytics, error) {
	stats, err := s.historyRepo.SongStats(ctx, songID)
	if err != nil {
		return nil, err
	}

	recent, err := s.historyRepo.RecentListeners(ctx, songID, RecentListenersLimit)
	if err != nil {
		return nil, err
	}
	listeners := make([]*RecentListener, 0, len(recent))
	for _, h := range recent {
		listeners = append(listeners, &RecentListener{
			UserID:         h.UserID,
			PlayCount:      h.PlayCount,
			LastListenedAt: h.LastListenedAt,
		})
	}

	return &SongAnalytics{
		SongID:                 songID,
		UniqueListeners:        stats.UniqueListeners,
		TotalPlays:             stats.TotalPlays,
		TotalDuration:          stats.TotalDuration,
		TotalDurationFormatted: FormatDuration(stats.TotalDuration),
		AvgCompletionRate:      stats.AvgCompletion,
		RecentListeners:        listeners,
	}, nil
}

// GetTopSongs 歌曲榜单。excludeAdmins 为假时保留含管理员播放的全量榜单
func (s *AnalyticsService) GetTopSongs(ctx context.Context, limit int, excludeAdmins bool) ([]*TopSong, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	return s.topSongs(ctx, limit, excludeAdmins)
}

// GetTopListeners 听众榜单。excludeAdmins 同上
func (s *AnalyticsService) GetTopListeners(ctx context.Context, limit int, excludeAdmins bool) ([]*TopListener, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	return s.topListeners(ctx, limit, excludeAdmins, false)
}

func (s *AnalyticsService) topSongs(ctx context.Context, limit int, excludeAdmins bool) ([]*TopSong, error) {
	rows, err := s.historyRepo.TopSongs(ctx, limit, excludeAdmins)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.SongID)
	}
	songs, err := s.songRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Song, len(songs))
	for _, song := range songs {
		byID[song.ID] = song
	}

	result := make([]*TopSong, 0, len(rows))
	for _, row := range rows {
		result = append(result, &TopSong{
			SongID:          row.SongID,
			TotalPlays:      row.TotalPlays,
			UniqueListeners: row.UniqueListeners,
			Song:            byID[row.SongID].Summary(),
		})
	}
	return result, nil
}

func (s *AnalyticsService) topListeners(ctx context.Context, limit int, excludeAdmins, withUsers bool) ([]*TopListener, error) {
	rows, err := s.historyRepo.TopListeners(ctx, limit, excludeAdmins)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.User)
	if withUsers {
		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.UserID)
		}
		users, err := s.userRepo.ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			byID[user.ID] = user
		}
	}

	result := make([]*TopListener, 0, len(rows))
	for _, row := range rows {
		listener := &TopListener{
			UserID:                 row.UserID,
			TotalPlays:             row.TotalPlays,
			TotalDuration:          row.TotalDuration,
			TotalDurationFormatted: FormatDuration(row.TotalDuration),
			UniqueSongs:            row.UniqueSongs,
		}
		if withUsers {
			listener.User = byID[row.UserID].Summary()
		}
		result = append(result, listener)
	}
	return result, nil
}

// attachSongs 同 HistoryService，挂载歌曲摘要
func (s *AnalyticsService) attachSongs(ctx context.Context, histories []*domain.ListeningHistory) error {
	if len(histories) == 0 {
		return nil
	}
	ids := make([]string, 0, len(histories))
	for _, h := range histories {
		ids = append(ids, h.SongID)
	}
	songs, err := s.songRepo.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*domain.Song, len(songs))
	for _, song := range songs {
		byID[song.ID] = song
	}
	for _, h := range histories {
		h.Song = byID[h.SongID]
	}
	return nil
}
