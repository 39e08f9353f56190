package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"music-svc/internal/domain"
)

// MockListeningHistoryRepository 收听历史仓储Mock
type MockListeningHistoryRepository struct {
	mock.Mock
}

func (m *MockListeningHistoryRepository) ApplyPlayback(ctx context.Context, upd *domain.PlaybackUpdate) (*domain.ListeningHistory, error) {
	args := m.Called(ctx, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ListeningHistory), args.Error(1)
}

func (m *MockListeningHistoryRepository) GetByPair(ctx context.Context, userID, songID string) (*domain.ListeningHistory, error) {
	args := m.Called(ctx, userID, songID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ListeningHistory), args.Error(1)
}

func (m *MockListeningHistoryRepository) GetByPairs(ctx context.Context, userID string, songIDs []string) ([]*domain.ListeningHistory, error) {
	args := m.Called(ctx, userID, songIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ListeningHistory), args.Error(1)
}

func (m *MockListeningHistoryRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.ListeningHistory, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ListeningHistory), args.Error(1)
}

func (m *MockListeningHistoryRepository) ListByUserByPlayCount(ctx context.Context, userID string, limit int) ([]*domain.ListeningHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ListeningHistory), args.Error(1)
}

func (m *MockListeningHistoryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListeningHistoryRepository) DeleteByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockListeningHistoryRepository) DeleteByPair(ctx context.Context, userID, songID string) error {
	args := m.Called(ctx, userID, songID)
	return args.Error(0)
}

func (m *MockListeningHistoryRepository) UserStats(ctx context.Context, userID string) (*domain.UserStatsRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStatsRow), args.Error(1)
}

func (m *MockListeningHistoryRepository) GlobalOverview(ctx context.Context) (*domain.GlobalOverviewRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GlobalOverviewRow), args.Error(1)
}

func (m *MockListeningHistoryRepository) WindowStats(ctx context.Context, since time.Time) (*domain.WindowStatsRow, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WindowStatsRow), args.Error(1)
}

func (m *MockListeningHistoryRepository) TopSongs(ctx context.Context, limit int, excludeAdmins bool) ([]*domain.SongAggRow, error) {
	args := m.Called(ctx, limit, excludeAdmins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SongAggRow), args.Error(1)
}

func (m *MockListeningHistoryRepository) TopListeners(ctx context.Context, limit int, excludeAdmins bool) ([]*domain.ListenerAggRow, error) {
	args := m.Called(ctx, limit, excludeAdmins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ListenerAggRow), args.Error(1)
}

func (m *MockListeningHistoryRepository) DailyTrends(ctx context.Context, since time.Time) ([]*domain.TrendPoint, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TrendPoint), args.Error(1)
}

func (m *MockListeningHistoryRepository) SongStats(ctx context.Context, songID string) (*domain.SongStatsRow, error) {
	args := m.Called(ctx, songID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SongStatsRow), args.Error(1)
}

func (m *MockListeningHistoryRepository) RecentListeners(ctx context.Context, songID string, limit int) ([]*domain.ListeningHistory, error) {
	args := m.Called(ctx, songID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ListeningHistory), args.Error(1)
}

// MockSongRepository 歌曲仓储Mock
type MockSongRepository struct {
	mock.Mock
}

func (m *MockSongRepository) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Song), args.Error(1)
}

func (m *MockSongRepository) GetBySlug(ctx context.Context, slug string) (*domain.Song, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Song), args.Error(1)
}

func (m *MockSongRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Song, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Song), args.Error(1)
}

func (m *MockSongRepository) IncrementPlays(ctx context.Context, id string, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

// MockUserRepository 用户仓储Mock
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

// MockAnalyticsCache 分析缓存Mock
type MockAnalyticsCache struct {
	mock.Mock
}

func (m *MockAnalyticsCache) GetBytes(ctx context.Context, key string, loader func() ([]byte, error), ttl time.Duration) ([]byte, error) {
	args := m.Called(ctx, key, loader, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockAnalyticsCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
