package service

import (
	"context"

	"music-svc/internal/domain"
	"music-svc/internal/repository"
)

// SongService 歌曲服务（历史核心的协作面：查询与全局播放计数）
type SongService struct {
	songRepo repository.SongRepository
}

// NewSongService 创建歌曲服务
func NewSongService(songRepo repository.SongRepository) *SongService {
	return &SongService{songRepo: songRepo}
}

// GetSong 按ID或slug获取歌曲
func (s *SongService) GetSong(ctx context.Context, idOrSlug string) (*domain.Song, error) {
	song, err := s.resolve(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if song == nil {
		return nil, domain.ErrSongNotFound
	}
	return song, nil
}

// LogSongPlay 歌曲全局播放计数+1（独立播放接口，个人历史由 log-play 负责）
// 管理员播放不计入公开计数
func (s *SongService) LogSongPlay(ctx context.Context, actor domain.Actor, idOrSlug string) (*domain.Song, error) {
	song, err := s.resolve(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if song == nil {
		return nil, domain.ErrSongNotFound
	}

	if !actor.Role.IsAdmin() {
		if err := s.songRepo.IncrementPlays(ctx, song.ID, 1); err != nil {
			return nil, err
		}
		song.Plays++
	}
	return song, nil
}

func (s *SongService) resolve(ctx context.Context, idOrSlug string) (*domain.Song, error) {
	if domain.IsSongID(idOrSlug) {
		return s.songRepo.GetByID(ctx, idOrSlug)
	}
	return s.songRepo.GetBySlug(ctx, idOrSlug)
}
