package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"coder_edu_client/internal/config"
	"coder_edu_client/internal/util"
	"coder_edu_client/pkg/logger"
	"coder_edu_client/pkg/monitoring"
	"coder_edu_client/pkg/tracing"
)

// SessionSource 网关对会话层的最小依赖
type SessionSource interface {
	AccessToken() string
	HasRefreshToken() bool
	Refresh(ctx context.Context) error
}

// Gateway 所有业务 API 调用的唯一出口：附加 Bearer 凭证，
// 401 时委托会话层刷新后重发原请求一次，其余错误原样上抛。
type Gateway struct {
	baseURL string
	session SessionSource
	client  *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

func New(cfg *config.Config, sess SessionSource) *Gateway {
	log := logger.Log
	if log == nil {
		log = zap.NewNop()
	}
	limit := rate.Inf
	burst := cfg.RateLimit.Burst
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return &Gateway{
		baseURL: cfg.API.BaseURL,
		session: sess,
		client:  &http.Client{Timeout: cfg.API.Timeout()},
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}
}

func (g *Gateway) Get(ctx context.Context, path string, out interface{}) error {
	return g.Do(ctx, http.MethodGet, path, nil, out)
}

func (g *Gateway) Post(ctx context.Context, path string, body, out interface{}) error {
	return g.Do(ctx, http.MethodPost, path, body, out)
}

func (g *Gateway) Put(ctx context.Context, path string, body, out interface{}) error {
	return g.Do(ctx, http.MethodPut, path, body, out)
}

func (g *Gateway) Delete(ctx context.Context, path string, out interface{}) error {
	return g.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do 发送一次 API 请求。无论有多少并发请求同时撞上 401，
// 刷新只会发生一次（会话层合并），且每个原请求最多重发一次。
func (g *Gateway) Do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("%s %s: encode request: %w", method, path, err)
		}
	}

	ctx, span := tracing.StartSpan(ctx, method+" "+path)
	defer span.End()

	status, respBody, err := g.send(ctx, method, path, payload)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if status == http.StatusUnauthorized && g.session.HasRefreshToken() {
		if err := g.session.Refresh(ctx); err != nil {
			if errors.Is(err, util.ErrSessionExpired) {
				return util.ErrSessionExpired
			}
			return fmt.Errorf("%s %s: refresh session: %w", method, path, err)
		}
		monitoring.RetryCounter.Inc()
		status, respBody, err = g.send(ctx, method, path, payload)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
	}

	if status < 200 || status >= 300 {
		return &util.HTTPError{Status: status, Message: util.ServerMessage(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

func (g *Gateway) send(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := g.session.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	tracing.InjectHTTP(ctx, req.Header)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	monitoring.ObserveRequest(method, path, resp.StatusCode, start)
	g.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp.StatusCode, body, nil
}
