package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")

	ErrNotFound         = errors.New("resource not found")
	ErrCourseIncomplete = errors.New("course not yet completed")
	// ErrConflict 并发重复创建，调用方应回退到已存在的记录，不外露
	ErrConflict = errors.New("concurrent duplicate create")
)
