package repository

import (
	"context"
	"errors"
	"time"

	"music-svc/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// nonAdminJoin 管理员排除谓词：所有面向听众的聚合统一复用这一个片段
const nonAdminJoin = ` JOIN users u ON u.id = h.user_id AND u.role <> 'admin'`

const historyColumns = `id, user_id, song_id, play_count, total_listened_duration, last_position, song_duration, completed, last_listened_at, created_at, updated_at`

// ListeningHistoryRepositoryImpl 收听历史仓储实现
type ListeningHistoryRepositoryImpl struct {
	db DB
}

// NewListeningHistoryRepository 创建收听历史仓储
func NewListeningHistoryRepository(db DB) ListeningHistoryRepository {
	return &ListeningHistoryRepositoryImpl{db: db}
}

// ApplyPlayback 原子落库一次播放进度上报
// 计数字段在SQL内做"加N"，并发的会话上报可交换不丢增量；
// 位置类字段为最新值覆盖；completed 与存量OR，保持粘性。
// 歌曲全局计数的增量与历史写入在同一事务内提交。
func (r *ListeningHistoryRepositoryImpl) ApplyPlayback(ctx context.Context, upd *domain.PlaybackUpdate) (*domain.ListeningHistory, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO listening_history (id, user_id, song_id, play_count, total_listened_duration, last_position, song_duration, completed, last_listened_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			COALESCE($6 / NULLIF($7, 0) * 100 >= $8, false),
			now(), now(), now())
		ON CONFLICT (user_id, song_id) DO UPDATE SET
			play_count = listening_history.play_count + EXCLUDED.play_count,
			total_listened_duration = listening_history.total_listened_duration + EXCLUDED.total_listened_duration,
			last_position = EXCLUDED.last_position,
			song_duration = COALESCE(EXCLUDED.song_duration, listening_history.song_duration),
			completed = listening_history.completed OR COALESCE(
				EXCLUDED.last_position / NULLIF(COALESCE(EXCLUDED.song_duration, listening_history.song_duration), 0) * 100 >= $8,
				false),
			last_listened_at = EXCLUDED.last_listened_at,
			updated_at = now()
		RETURNING ` + historyColumns

	var history domain.ListeningHistory
	err = tx.QueryRow(ctx, query,
		uuid.New().String(),
		upd.UserID,
		upd.SongID,
		upd.PlayCountDelta,
		upd.ListenedDelta,
		upd.Position,
		upd.SongDuration,
		domain.CompletionThresholdPercent,
	).Scan(
		&history.ID,
		&history.UserID,
		&history.SongID,
		&history.PlayCount,
		&history.TotalListenedDuration,
		&history.LastPosition,
		&history.SongDuration,
		&history.Completed,
		&history.LastListenedAt,
		&history.CreatedAt,
		&history.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if upd.SongPlaysDelta > 0 {
		_, err = tx.Exec(ctx, `UPDATE songs SET plays = plays + $2, updated_at = now() WHERE id = $1`,
			upd.SongID, upd.SongPlaysDelta)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &history, nil
}

// GetByPair 按 (user_id, song_id) 获取历史记录，不存在返回 (nil, nil)
func (r *ListeningHistoryRepositoryImpl) GetByPair(ctx context.Context, userID, songID string) (*domain.ListeningHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM listening_history WHERE user_id = $1 AND song_id = $2`
	row := r.db.QueryRow(ctx, query, userID, songID)
	history, err := scanHistory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return history, nil
}

// GetByPairs 批量获取一个用户对多首歌曲的历史记录
func (r *ListeningHistoryRepositoryImpl) GetByPairs(ctx context.Context, userID string, songIDs []string) ([]*domain.ListeningHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM listening_history WHERE user_id = $1 AND song_id = ANY($2)`
	rows, err := r.db.Query(ctx, query, userID, songIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistories(rows)
}

// ListByUser 按最近收听时间倒序分页获取用户历史
func (r *ListeningHistoryRepositoryImpl) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.ListeningHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM listening_history
		WHERE user_id = $1
		ORDER BY last_listened_at DESC NULLS LAST
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistories(rows)
}

// ListByUserByPlayCount 按个人播放次数倒序获取用户历史
func (r *ListeningHistoryRepositoryImpl) ListByUserByPlayCount(ctx context.Context, userID string, limit int) ([]*domain.ListeningHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM listening_history
		WHERE user_id = $1
		ORDER BY play_count DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistories(rows)
}

// CountByUser 统计用户历史记录数量
func (r *ListeningHistoryRepositoryImpl) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM listening_history WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// DeleteByUser 删除用户全部历史
func (r *ListeningHistoryRepositoryImpl) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM listening_history WHERE user_id = $1`, userID)
	return err
}

// DeleteByPair 删除单条用户-歌曲历史
func (r *ListeningHistoryRepositoryImpl) DeleteByPair(ctx context.Context, userID, songID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM listening_history WHERE user_id = $1 AND song_id = $2`, userID, songID)
	return err
}

// UserStats 单用户聚合统计（个人数据，无需管理员排除）
func (r *ListeningHistoryRepositoryImpl) UserStats(ctx context.Context, userID string) (*domain.UserStatsRow, error) {
	query := `
		SELECT COUNT(DISTINCT song_id),
		       COALESCE(SUM(play_count), 0),
		       COALESCE(SUM(total_listened_duration), 0),
		       COUNT(*) FILTER (WHERE completed)
		FROM listening_history
		WHERE user_id = $1
	`
	var stats domain.UserStatsRow
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.UniqueSongs,
		&stats.TotalPlays,
		&stats.TotalDuration,
		&stats.CompletedSongs,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GlobalOverview 全局概览聚合，排除管理员
func (r *ListeningHistoryRepositoryImpl) GlobalOverview(ctx context.Context) (*domain.GlobalOverviewRow, error) {
	query := `
		SELECT COUNT(DISTINCT h.user_id),
		       COUNT(DISTINCT h.song_id),
		       COALESCE(SUM(h.play_count), 0),
		       COALESCE(SUM(h.total_listened_duration), 0)
		FROM listening_history h` + nonAdminJoin
	var overview domain.GlobalOverviewRow
	err := r.db.QueryRow(ctx, query).Scan(
		&overview.UniqueListeners,
		&overview.UniqueSongsPlayed,
		&overview.TotalPlays,
		&overview.TotalDuration,
	)
	if err != nil {
		return nil, err
	}
	return &overview, nil
}

// WindowStats 时间窗口内的听众数与播放数，排除管理员
func (r *ListeningHistoryRepositoryImpl) WindowStats(ctx context.Context, since time.Time) (*domain.WindowStatsRow, error) {
	query := `
		SELECT COUNT(DISTINCT h.user_id),
		       COALESCE(SUM(h.play_count), 0)
		FROM listening_history h` + nonAdminJoin + `
		WHERE h.last_listened_at >= $1
	`
	var stats domain.WindowStatsRow
	err := r.db.QueryRow(ctx, query, since).Scan(&stats.Listeners, &stats.Plays)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// TopSongs 按歌曲分组的播放榜，excludeAdmins 控制是否排除管理员播放
func (r *ListeningHistoryRepositoryImpl) TopSongs(ctx context.Context, limit int, excludeAdmins bool) ([]*domain.SongAggRow, error) {
	query := `
		SELECT h.song_id,
		       COALESCE(SUM(h.play_count), 0) AS total_plays,
		       COUNT(DISTINCT h.user_id)
		FROM listening_history h`
	if excludeAdmins {
		query += nonAdminJoin
	}
	query += `
		GROUP BY h.song_id
		ORDER BY total_plays DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.SongAggRow
	for rows.Next() {
		var row domain.SongAggRow
		if err := rows.Scan(&row.SongID, &row.TotalPlays, &row.UniqueListeners); err != nil {
			return nil, err
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}

// TopListeners 按用户分组的收听榜，excludeAdmins 控制是否排除管理员
func (r *ListeningHistoryRepositoryImpl) TopListeners(ctx context.Context, limit int, excludeAdmins bool) ([]*domain.ListenerAggRow, error) {
	query := `
		SELECT h.user_id,
		       COALESCE(SUM(h.play_count), 0) AS total_plays,
		       COALESCE(SUM(h.total_listened_duration), 0),
		       COUNT(DISTINCT h.song_id)
		FROM listening_history h`
	if excludeAdmins {
		query += nonAdminJoin
	}
	query += `
		GROUP BY h.user_id
		ORDER BY total_plays DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.ListenerAggRow
	for rows.Next() {
		var row domain.ListenerAggRow
		if err := rows.Scan(&row.UserID, &row.TotalPlays, &row.TotalDuration, &row.UniqueSongs); err != nil {
			return nil, err
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}

// DailyTrends 按日分桶的播放趋势（升序），排除管理员
func (r *ListeningHistoryRepositoryImpl) DailyTrends(ctx context.Context, since time.Time) ([]*domain.TrendPoint, error) {
	query := `
		SELECT DATE(h.last_listened_at) AS day,
		       COALESCE(SUM(h.play_count), 0),
		       COUNT(DISTINCT h.user_id)
		FROM listening_history h` + nonAdminJoin + `
		WHERE h.last_listened_at >= $1
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []*domain.TrendPoint
	for rows.Next() {
		var point domain.TrendPoint
		if err := rows.Scan(&point.Date, &point.Plays, &point.Listeners); err != nil {
			return nil, err
		}
		trends = append(trends, &point)
	}
	return trends, rows.Err()
}

// SongStats 单歌曲聚合统计（歌曲维度，不做角色过滤）
// 平均完成率对零时长记录以 NULLIF 兜底
func (r *ListeningHistoryRepositoryImpl) SongStats(ctx context.Context, songID string) (*domain.SongStatsRow, error) {
	query := `
		SELECT COUNT(DISTINCT user_id),
		       COALESCE(SUM(play_count), 0),
		       COALESCE(SUM(total_listened_duration), 0),
		       COALESCE(AVG(last_position / NULLIF(song_duration, 0) * 100), 0)
		FROM listening_history
		WHERE song_id = $1
	`
	var stats domain.SongStatsRow
	err := r.db.QueryRow(ctx, query, songID).Scan(
		&stats.UniqueListeners,
		&stats.TotalPlays,
		&stats.TotalDuration,
		&stats.AvgCompletion,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentListeners 歌曲的最近听众记录，按最近收听时间倒序
func (r *ListeningHistoryRepositoryImpl) RecentListeners(ctx context.Context, songID string, limit int) ([]*domain.ListeningHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM listening_history
		WHERE song_id = $1
		ORDER BY last_listened_at DESC NULLS LAST
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, songID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistories(rows)
}

func scanHistory(row pgx.Row) (*domain.ListeningHistory, error) {
	var history domain.ListeningHistory
	err := row.Scan(
		&history.ID,
		&history.UserID,
		&history.SongID,
		&history.PlayCount,
		&history.TotalListenedDuration,
		&history.LastPosition,
		&history.SongDuration,
		&history.Completed,
		&history.LastListenedAt,
		&history.CreatedAt,
		&history.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func scanHistories(rows pgx.Rows) ([]*domain.ListeningHistory, error) {
	var histories []*domain.ListeningHistory
	for rows.Next() {
		history, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		histories = append(histories, history)
	}
	return histories, rows.Err()
}
