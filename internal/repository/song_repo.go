package repository

import (
	"context"
	"errors"

	"music-svc/internal/domain"

	"github.com/jackc/pgx/v5"
)

const songColumns = `s.id, s.title, s.slug, s.cover_url, s.audio_url, s.duration, s.plays, s.creator_id, s.created_at, s.updated_at`

// SongRepositoryImpl 歌曲仓储实现
type SongRepositoryImpl struct {
	db DB
}

// NewSongRepository 创建歌曲仓储
func NewSongRepository(db DB) SongRepository {
	return &SongRepositoryImpl{db: db}
}

// GetByID 按ID获取歌曲（含创作者摘要），不存在返回 (nil, nil)
func (r *SongRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	return r.getByField(ctx, "s.id", id)
}

// GetBySlug 按slug获取歌曲，不存在返回 (nil, nil)
func (r *SongRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*domain.Song, error) {
	return r.getByField(ctx, "s.slug", slug)
}

func (r *SongRepositoryImpl) getByField(ctx context.Context, field, value string) (*domain.Song, error) {
	query := `
		SELECT ` + songColumns + `,
		       c.id, c.username, c.display_name, c.avatar_url
		FROM songs s
		LEFT JOIN users c ON c.id = s.creator_id
		WHERE ` + field + ` = $1
	`
	song, err := scanSong(r.db.QueryRow(ctx, query, value))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return song, nil
}

// ListByIDs 批量获取歌曲（含创作者摘要）
func (r *SongRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]*domain.Song, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + songColumns + `,
		       c.id, c.username, c.display_name, c.avatar_url
		FROM songs s
		LEFT JOIN users c ON c.id = s.creator_id
		WHERE s.id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []*domain.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// IncrementPlays 歌曲全局播放计数原子加N
func (r *SongRepositoryImpl) IncrementPlays(ctx context.Context, id string, delta int64) error {
	_, err := r.db.Exec(ctx, `UPDATE songs SET plays = plays + $2, updated_at = now() WHERE id = $1`, id, delta)
	return err
}

func scanSong(row pgx.Row) (*domain.Song, error) {
	var song domain.Song
	var songCreatorID *string
	var creatorID, creatorUsername, creatorDisplayName, creatorAvatar *string
	err := row.Scan(
		&song.ID,
		&song.Title,
		&song.Slug,
		&song.CoverURL,
		&song.AudioURL,
		&song.Duration,
		&song.Plays,
		&songCreatorID,
		&song.CreatedAt,
		&song.UpdatedAt,
		&creatorID,
		&creatorUsername,
		&creatorDisplayName,
		&creatorAvatar,
	)
	if err != nil {
		return nil, err
	}
	song.CreatorID = deref(songCreatorID)
	if creatorID != nil {
		song.Creator = &domain.User{
			ID:          *creatorID,
			Username:    deref(creatorUsername),
			DisplayName: deref(creatorDisplayName),
			AvatarURL:   deref(creatorAvatar),
		}
	}
	return &song, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
