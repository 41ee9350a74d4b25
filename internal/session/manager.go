package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"coder_edu_client/internal/config"
	"coder_edu_client/internal/model"
	"coder_edu_client/internal/store"
	"coder_edu_client/internal/util"
	"coder_edu_client/pkg/logger"
	"coder_edu_client/pkg/monitoring"
)

// Manager 持有当前会话（令牌对 + 用户身份），是会话状态的唯一所有者。
// TokenStore 只作为跨进程重启的被动镜像。
type Manager struct {
	baseURL string
	store   *store.TokenStore
	client  *http.Client
	log     *zap.Logger

	mu       sync.RWMutex
	access   string
	refresh  string
	identity *model.Identity

	loading atomic.Bool
	group   singleflight.Group
}

func NewManager(cfg config.APIConfig, ts *store.TokenStore) *Manager {
	log := logger.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		baseURL: cfg.BaseURL,
		store:   ts,
		client:  &http.Client{Timeout: cfg.Timeout()},
		log:     log,
	}
	m.loading.Store(true)
	return m
}

// Loading 在 Restore 完成前为 true，调用方可据此推迟渲染未登录状态
func (m *Manager) Loading() bool {
	return m.loading.Load()
}

func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

func (m *Manager) HasRefreshToken() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh != ""
}

func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access != "" && m.refresh != ""
}

func (m *Manager) CurrentUser() *model.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return nil
	}
	id := *m.identity
	return &id
}

// Login 用邮箱密码换取令牌对。失败时不触碰已有会话。
func (m *Manager) Login(ctx context.Context, email, password string) error {
	pair, status, err := m.postTokenRequest(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized || status == http.StatusBadRequest {
		return util.ErrInvalidCredentials
	}
	if status != http.StatusOK {
		return &util.HTTPError{Status: status}
	}
	return m.establish(pair, &model.Identity{Email: email})
}

// Register 注册新账号，服务端向邮箱发送确认码
func (m *Manager) Register(ctx context.Context, email, password, passwordConfirm string) error {
	return m.postStatusRequest(ctx, "/auth/register", map[string]string{
		"email":            email,
		"password":         password,
		"password_confirm": passwordConfirm,
	})
}

// ConfirmRegister 用邮箱确认码完成注册，成功后建立会话（与登录同一契约）
func (m *Manager) ConfirmRegister(ctx context.Context, email, code string) error {
	pair, status, err := m.postTokenRequest(ctx, "/auth/confirm", map[string]string{
		"email": email,
		"code":  code,
	})
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized || status == http.StatusBadRequest {
		return util.ErrInvalidCode
	}
	if status != http.StatusOK {
		return &util.HTTPError{Status: status}
	}
	return m.establish(pair, &model.Identity{Email: email})
}

// ResetPassword 发起密码重置，服务端向邮箱发送确认码
func (m *Manager) ResetPassword(ctx context.Context, email, password, passwordConfirm string) error {
	return m.postStatusRequest(ctx, "/auth/reset_password", map[string]string{
		"email":            email,
		"password":         password,
		"password_confirm": passwordConfirm,
	})
}

// ConfirmResetPassword 用确认码完成密码重置
func (m *Manager) ConfirmResetPassword(ctx context.Context, email, code string) error {
	return m.postStatusRequest(ctx, "/auth/confirm_reset_password", map[string]string{
		"email": email,
		"code":  code,
	})
}

// Refresh 用刷新令牌换取新令牌对。并发调用合并为一次网络请求，
// 所有等待者共享同一结果。失败时清空会话与存储。
func (m *Manager) Refresh(ctx context.Context) error {
	_, err, _ := m.group.Do("refresh", func() (interface{}, error) {
		return nil, m.doRefresh(context.WithoutCancel(ctx))
	})
	return err
}

func (m *Manager) doRefresh(ctx context.Context) error {
	m.mu.RLock()
	refresh := m.refresh
	m.mu.RUnlock()
	if refresh == "" {
		return util.ErrNoSession
	}

	pair, status, err := m.postTokenRequest(ctx, "/auth/refresh", map[string]string{
		"refresh_token": refresh,
	})
	if err != nil {
		monitoring.RefreshCounter.WithLabelValues("network_error").Inc()
		m.clear()
		return err
	}
	if status != http.StatusOK || pair.AccessToken == "" || pair.RefreshToken == "" {
		monitoring.RefreshCounter.WithLabelValues("rejected").Inc()
		m.log.Warn("token refresh rejected", zap.Int("status", status))
		m.clear()
		return util.ErrSessionExpired
	}

	monitoring.RefreshCounter.WithLabelValues("ok").Inc()

	m.mu.Lock()
	m.access = pair.AccessToken
	m.refresh = pair.RefreshToken
	m.mu.Unlock()

	if err := m.store.SaveTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		m.log.Error("persist refreshed tokens", zap.Error(err))
	}
	if exp, ok := accessTokenExpiry(pair.AccessToken); ok {
		m.log.Debug("access token renewed", zap.Time("expires_at", exp))
	}
	return nil
}

// Logout 无条件清空会话与本地存储，从不失败
func (m *Manager) Logout() {
	m.clear()
}

// Restore 进程启动时恢复会话：两个令牌都在时先跑一次 Refresh 验证。
// 返回恢复后是否处于已登录状态；error 只反映本地存储故障。
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	defer m.loading.Store(false)

	access, refresh, err := m.store.Tokens()
	if err != nil {
		return false, err
	}
	// 令牌对残缺视为未登录
	if access == "" || refresh == "" {
		if access != refresh {
			if err := m.store.Clear(); err != nil {
				m.log.Error("clear token store", zap.Error(err))
			}
		}
		return false, nil
	}

	identity, err := m.store.Identity()
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	m.access = access
	m.refresh = refresh
	m.identity = identity
	m.mu.Unlock()

	if err := m.Refresh(ctx); err != nil {
		m.log.Info("stored session no longer valid", zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (m *Manager) establish(pair *model.TokenPair, identity *model.Identity) error {
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return fmt.Errorf("server returned an incomplete token pair")
	}

	m.mu.Lock()
	m.access = pair.AccessToken
	m.refresh = pair.RefreshToken
	m.identity = identity
	m.mu.Unlock()

	if err := m.store.SaveTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		m.log.Error("persist tokens", zap.Error(err))
	}
	if identity != nil {
		if err := m.store.SaveIdentity(*identity); err != nil {
			m.log.Error("persist identity", zap.Error(err))
		}
	}
	if exp, ok := accessTokenExpiry(pair.AccessToken); ok {
		m.log.Debug("session established", zap.String("email", identity.Email), zap.Time("expires_at", exp))
	}
	return nil
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.access = ""
	m.refresh = ""
	m.identity = nil
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.log.Error("clear token store", zap.Error(err))
	}
}

// accessTokenExpiry 不验证签名，只读取过期时间用于日志
func accessTokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (m *Manager) postTokenRequest(ctx context.Context, path string, payload map[string]string) (*model.TokenPair, int, error) {
	body, status, err := m.post(ctx, path, payload)
	if err != nil {
		return nil, 0, err
	}
	var pair model.TokenPair
	if status == http.StatusOK {
		if err := json.Unmarshal(body, &pair); err != nil {
			return nil, 0, fmt.Errorf("decode token response: %w", err)
		}
	}
	return &pair, status, nil
}

func (m *Manager) postStatusRequest(ctx context.Context, path string, payload map[string]string) error {
	body, status, err := m.post(ctx, path, payload)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &util.HTTPError{Status: status, Message: util.ServerMessage(body)}
	}
	return nil
}

func (m *Manager) post(ctx context.Context, path string, payload map[string]string) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("POST %s: read response: %w", path, err)
	}
	return body, resp.StatusCode, nil
}
