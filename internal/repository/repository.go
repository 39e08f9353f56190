package repository

import (
	"context"
	"time"

	"music-svc/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB 仓储所需的连接能力，*pgxpool.Pool 满足
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ListeningHistoryRepository 收听历史仓储接口
// 历史表的全部SQL访问都收敛在这里（含跨实体的歌曲计数增量，见ApplyPlayback）
type ListeningHistoryRepository interface {
	// ApplyPlayback 原子落库一次播放进度上报：
	// 不存在则创建记录，计数字段做"加N"增量，位置类字段整体覆盖，
	// completed 在SQL内计算并与存量做OR（粘性）。
	// upd.SongPlaysDelta > 0 时在同一事务内累加歌曲全局播放计数。
	ApplyPlayback(ctx context.Context, upd *domain.PlaybackUpdate) (*domain.ListeningHistory, error)

	GetByPair(ctx context.Context, userID, songID string) (*domain.ListeningHistory, error)
	GetByPairs(ctx context.Context, userID string, songIDs []string) ([]*domain.ListeningHistory, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.ListeningHistory, error)
	ListByUserByPlayCount(ctx context.Context, userID string, limit int) ([]*domain.ListeningHistory, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
	DeleteByPair(ctx context.Context, userID, songID string) error

	// 聚合查询。excludeAdmins 为真时 join users 并过滤 role <> 'admin'。
	UserStats(ctx context.Context, userID string) (*domain.UserStatsRow, error)
	GlobalOverview(ctx context.Context) (*domain.GlobalOverviewRow, error)
	WindowStats(ctx context.Context, since time.Time) (*domain.WindowStatsRow, error)
	TopSongs(ctx context.Context, limit int, excludeAdmins bool) ([]*domain.SongAggRow, error)
	TopListeners(ctx context.Context, limit int, excludeAdmins bool) ([]*domain.ListenerAggRow, error)
	DailyTrends(ctx context.Context, since time.Time) ([]*domain.TrendPoint, error)
	SongStats(ctx context.Context, songID string) (*domain.SongStatsRow, error)
	RecentListeners(ctx context.Context, songID string, limit int) ([]*domain.ListeningHistory, error)
}

// SongRepository 歌曲仓储接口（历史核心只读歌曲，播放计数走独立增量）
type SongRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Song, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Song, error)
	ListByIDs(ctx context.Context, ids []string) ([]*domain.Song, error)
	IncrementPlays(ctx context.Context, id string, delta int64) error
}

// UserRepository 用户仓储接口（榜单的用户信息挂载；角色本身由认证层提供）
type UserRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
}
