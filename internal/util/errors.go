package util

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCode        = errors.New("确认码无效或已过期")
	ErrSessionExpired     = errors.New("会话已过期，请重新登录")
	ErrNoSession          = errors.New("not authenticated")
	ErrQuizLocked         = errors.New("quiz already passed, answers are locked")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrInvalidOption      = errors.New("option index out of range")
	ErrTaskNotLoaded      = errors.New("no task loaded")
)

// HTTPError 服务端返回的非成功状态
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

// ExecutionError 远程执行/判题服务失败
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("remote execution failed: %s", e.Message)
}
