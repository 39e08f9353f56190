package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"music-svc/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testSongID = "0b6a9f3e-7c2d-4f6a-9b1e-2d3c4e5f6a7b"
	testUserID = "9f8e7d6c-5b4a-4c3d-9e2f-1a2b3c4d5e6f"
)

// withIdentity 模拟认证中间件注入的请求方身份
func withIdentity(userID string, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", string(role))
		c.Next()
	}
}

// doRequest 执行一次测试请求
func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

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
