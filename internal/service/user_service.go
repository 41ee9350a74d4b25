package service

import (
	"context"

	"coder_edu_client/internal/gateway"
	"coder_edu_client/internal/model"
)

// UserService 用户资料。读取接口的资料包在 user 字段里，
// 写入接口只返回操作状态。
type UserService struct {
	Gateway *gateway.Gateway
}

func NewUserService(gw *gateway.Gateway) *UserService {
	return &UserService{Gateway: gw}
}

func (s *UserService) Me(ctx context.Context) (*model.Profile, error) {
	var resp struct {
		User model.Profile `json:"user"`
	}
	if err := s.Gateway.Get(ctx, "/users/me", &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (s *UserService) UpdateMe(ctx context.Context, name, lastName string) error {
	payload := map[string]string{"name": name, "last_name": lastName}
	return s.Gateway.Put(ctx, "/users/update", payload, nil)
}

// DeleteMe 注销账号。调用方应随后调用 session.Logout 清理本地会话。
func (s *UserService) DeleteMe(ctx context.Context) error {
	return s.Gateway.Delete(ctx, "/users/me/delete", nil)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.Profile, error) {
	var resp struct {
		User model.Profile `json:"user"`
	}
	if err := s.Gateway.Get(ctx, "/users/"+userID, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}
