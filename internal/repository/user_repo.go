package repository

import (
	"context"

	"music-svc/internal/domain"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, username, display_name, avatar_url, role, created_at, updated_at`

// UserRepositoryImpl 用户仓储实现
type UserRepositoryImpl struct {
	db DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

// ListByIDs 批量获取用户
func (r *UserRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
