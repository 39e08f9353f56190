package domain

import "time"

// Role 用户角色（闭集：user/creator/resident/admin）
type Role string

const (
	RoleUser     Role = "user"
	RoleCreator  Role = "creator"
	RoleResident Role = "resident"
	RoleAdmin    Role = "admin"
)

// IsValid 判断角色是否合法
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleCreator, RoleResident, RoleAdmin:
		return true
	}
	return false
}

// IsAdmin 判断是否为管理员角色
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Actor 请求方身份（由认证层注入，核心层不自行推导角色）
type Actor struct {
	UserID string
	Role   Role
}

// User 用户实体
type User struct {
	ID          string    `json:"id"`           // UUID
	Email       string    `json:"email"`        // 邮箱（唯一）
	Username    string    `json:"username"`     // 用户名（唯一）
	DisplayName string    `json:"display_name"` // 展示名
	AvatarURL   string    `json:"avatar_url"`   // 头像URL
	Role        Role      `json:"role"`         // 角色
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserSummary 用户摘要（用于榜单/最近听众的嵌套展示）
type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Summary 返回用户摘要
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}
