package service

import (
	"context"

	"music-svc/internal/domain"
	"music-svc/internal/repository"
)

const (
	// DefaultHistoryPageSize 历史列表默认页大小
	DefaultHistoryPageSize = 50
	// MaxHistoryPageSize 历史列表最大页大小
	MaxHistoryPageSize = 200
)

// HistoryService 收听历史服务（更新/同步/记录播放）
type HistoryService struct {
	historyRepo repository.ListeningHistoryRepository
	songRepo    repository.SongRepository
}

// NewHistoryService 创建收听历史服务
func NewHistoryService(historyRepo repository.ListeningHistoryRepository, songRepo repository.SongRepository) *HistoryService {
	return &HistoryService{
		historyRepo: historyRepo,
		songRepo:    songRepo,
	}
}

// UpdateHistoryInput 播放进度上报
type UpdateHistoryInput struct {
	SongID           string   `json:"song_id" binding:"required"`
	CurrentPosition  float64  `json:"current_position"`
	Duration         *float64 `json:"duration"`
	ListenedDuration float64  `json:"listened_duration"`
	IncrementPlay    bool     `json:"increment_play"`
}

// LogPlayInput 单次播放记录（不触碰歌曲全局计数）
type LogPlayInput struct {
	SongID   string   `json:"song_id" binding:"required"`
	Position float64  `json:"position"`
	Duration *float64 `json:"duration"`
}

// SyncItem 客户端缓冲的单条播放事件
type SyncItem struct {
	SongID           string   `json:"song_id"`
	CurrentPosition  float64  `json:"current_position"`
	Duration         *float64 `json:"duration"`
	ListenedDuration float64  `json:"listened_duration"`
	PlayCount        int64    `json:"play_count"`
}

// SyncHistoryInput 批量同步请求
type SyncHistoryInput struct {
	History []SyncItem `json:"history" binding:"required"`
}

// UpdateHistory 更新 (user, song) 对的收听历史
// incrementPlay 为真时个人计数+1；非管理员同时在同一事务内歌曲全局计数+1
func (s *HistoryService) UpdateHistory(ctx context.Context, actor domain.Actor, input *UpdateHistoryInput) (*HistoryEntry, error) {
	if !domain.IsSongID(input.SongID) {
		return nil, domain.ErrInvalidSongID
	}
	if input.CurrentPosition < 0 {
		return nil, domain.ErrInvalidPosition
	}

	song, err := s.songRepo.GetByID(ctx, input.SongID)
	if err != nil {
		return nil, err
	}
	if song == nil {
		return nil, domain.ErrSongNotFound
	}

	upd := &domain.PlaybackUpdate{
		UserID:       actor.UserID,
		SongID:       input.SongID,
		Position:     input.CurrentPosition,
		SongDuration: input.Duration,
	}
	if input.ListenedDuration > 0 {
		upd.ListenedDelta = input.ListenedDuration
	}
	if input.IncrementPlay {
		upd.PlayCountDelta = 1
		// 管理员播放不影响公开播放计数
		if !actor.Role.IsAdmin() {
			upd.SongPlaysDelta = 1
		}
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	history, err := s.historyRepo.ApplyPlayback(ctx, upd)
	if err != nil {
		return nil, err
	}
	history.Song = song
	return NewHistoryEntry(history), nil
}

// LogPlayOnly 仅记录个人历史的播放，不论角色都不触碰歌曲全局计数
// （全局计数由独立的歌曲播放接口负责，避免重复计数）
// songID 可为slug；无法解析到歌曲时静默返回 (nil, nil)
func (s *HistoryService) LogPlayOnly(ctx context.Context, userID string, input *LogPlayInput) (*HistoryEntry, error) {
	songID, err := s.resolveSongID(ctx, input.SongID)
	if err != nil {
		return nil, err
	}
	if songID == "" {
		// 容忍演示/占位内容的失效引用
		return nil, nil
	}

	upd := &domain.PlaybackUpdate{
		UserID:         userID,
		SongID:         songID,
		Position:       input.Position,
		SongDuration:   input.Duration,
		PlayCountDelta: 1,
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	history, err := s.historyRepo.ApplyPlayback(ctx, upd)
	if err != nil {
		return nil, err
	}
	return NewHistoryEntry(history), nil
}

// SyncHistory 批量落库客户端缓冲的播放事件（标签页关闭或周期性flush）
// 加法语义：同一批次重复提交会重复累计，至多一次投递由调用方保证。
// 解析不到的条目跳过而不报错。
func (s *HistoryService) SyncHistory(ctx context.Context, actor domain.Actor, input *SyncHistoryInput) (*SyncResult, error) {
	result := &SyncResult{History: make([]*HistoryEntry, 0, len(input.History))}

	for _, item := range input.History {
		songID, err := s.resolveSongID(ctx, item.SongID)
		if err != nil {
			return nil, err
		}
		if songID == "" {
			continue
		}

		upd := &domain.PlaybackUpdate{
			UserID:       actor.UserID,
			SongID:       songID,
			Position:     item.CurrentPosition,
			SongDuration: item.Duration,
		}
		if item.ListenedDuration > 0 {
			upd.ListenedDelta = item.ListenedDuration
		}
		if item.PlayCount > 0 {
			upd.PlayCountDelta = item.PlayCount
			if !actor.Role.IsAdmin() {
				upd.SongPlaysDelta = item.PlayCount
			}
		}
		if err := upd.Validate(); err != nil {
			return nil, err
		}

		history, err := s.historyRepo.ApplyPlayback(ctx, upd)
		if err != nil {
			return nil, err
		}
		result.History = append(result.History, NewHistoryEntry(history))
	}

	result.Synced = len(result.History)
	return result, nil
}

// GetUserHistory 分页获取用户历史（按最近收听倒序，含歌曲摘要）
func (s *HistoryService) GetUserHistory(ctx context.Context, userID string, limit, offset int) (*HistoryPage, error) {
	if limit <= 0 {
		limit = DefaultHistoryPageSize
	}
	if limit > MaxHistoryPageSize {
		limit = MaxHistoryPageSize
	}
	if offset < 0 {
		offset = 0
	}

	histories, err := s.historyRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.historyRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.attachSongs(ctx, histories); err != nil {
		return nil, err
	}

	return &HistoryPage{
		Data: newHistoryEntries(histories),
		Meta: PageMeta{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: int64(offset+len(histories)) < total,
		},
	}, nil
}

// GetSongHistory 获取单首歌曲的历史（用于断点续播），无记录返回零值形态
func (s *HistoryService) GetSongHistory(ctx context.Context, userID, songID string) (*HistoryEntry, error) {
	history, err := s.historyRepo.GetByPair(ctx, userID, songID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		return emptyHistoryEntry(songID), nil
	}
	if err := s.attachSongs(ctx, []*domain.ListeningHistory{history}); err != nil {
		return nil, err
	}
	return NewHistoryEntry(history), nil
}

// GetSongsHistory 批量获取多首歌曲的历史，缺失项补零值形态，保持请求顺序
func (s *HistoryService) GetSongsHistory(ctx context.Context, userID string, songIDs []string) ([]*HistoryEntry, error) {
	if len(songIDs) == 0 {
		return []*HistoryEntry{}, nil
	}

	histories, err := s.historyRepo.GetByPairs(ctx, userID, songIDs)
	if err != nil {
		return nil, err
	}

	bySong := make(map[string]*domain.ListeningHistory, len(histories))
	for _, h := range histories {
		bySong[h.SongID] = h
	}

	entries := make([]*HistoryEntry, 0, len(songIDs))
	for _, songID := range songIDs {
		if h, ok := bySong[songID]; ok {
			entries = append(entries, NewHistoryEntry(h))
		} else {
			entries = append(entries, emptyHistoryEntry(songID))
		}
	}
	return entries, nil
}

// ClearHistory 清空用户全部历史
func (s *HistoryService) ClearHistory(ctx context.Context, userID string) error {
	return s.historyRepo.DeleteByUser(ctx, userID)
}

// RemoveFromHistory 从历史中移除单首歌曲
func (s *HistoryService) RemoveFromHistory(ctx context.Context, userID, songID string) error {
	return s.historyRepo.DeleteByPair(ctx, userID, songID)
}

// resolveSongID 标识符/slug消歧：规范UUID原样返回，否则按slug查找；
// 查不到返回空串（调用方按跳过处理）
func (s *HistoryService) resolveSongID(ctx context.Context, songID string) (string, error) {
	if songID == "" {
		return "", nil
	}
	if domain.IsSongID(songID) {
		return songID, nil
	}
	song, err := s.songRepo.GetBySlug(ctx, songID)
	if err != nil {
		return "", err
	}
	if song == nil {
		return "", nil
	}
	return song.ID, nil
}

// attachSongs 二次查询批量挂载歌曲与创作者摘要
func (s *HistoryService) attachSongs(ctx context.Context, histories []*domain.ListeningHistory) error {
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
