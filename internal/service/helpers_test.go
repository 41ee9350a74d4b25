package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"coder_edu_client/internal/config"
	"coder_edu_client/internal/gateway"
)

type staticSession struct {
	token string
}

func (s staticSession) AccessToken() string { return s.token }
func (s staticSession) HasRefreshToken() bool { return false }
func (s staticSession) Refresh(ctx context.Context) error { return nil }

func newTestGateway(t *testing.T, handler http.Handler) *gateway.Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.Config{API: config.APIConfig{BaseURL: srv.URL, TimeoutSeconds: 5}}
	return gateway.New(cfg, staticSession{token: "test-token"})
}
