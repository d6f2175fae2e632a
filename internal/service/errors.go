package service

import "errors"

// 业务哨兵错误，handler 层用 errors.Is 映射到 HTTP 状态码
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrFollowSelf         = errors.New("cannot follow self")
	ErrSessionNotFound    = errors.New("session not found")
)
