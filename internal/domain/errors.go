package domain

import "errors"

var (
	// 通用错误
	ErrInvalidUserID   = errors.New("invalid user id")
	ErrInvalidSongID   = errors.New("invalid song id")
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidLimit    = errors.New("invalid limit")

	// 收听历史相关错误
	ErrHistoryNotFound = errors.New("history not found")

	// 歌曲/用户相关错误
	ErrSongNotFound = errors.New("song not found")
	ErrUserNotFound = errors.New("user not found")

	// 权限相关错误
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
