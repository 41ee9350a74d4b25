package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API       APIConfig
	Client    ClientConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout 输出传输层超时时间
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type ClientConfig struct {
	Mode string
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("CODER_EDU_CLIENT")
	viper.AutomaticEnv()

	// API
	viper.BindEnv("api.base_url", "API_BASE_URL")
	viper.BindEnv("api.timeout_seconds", "API_TIMEOUT_SECONDS")

	// Client
	viper.BindEnv("client.mode", "CLIENT_MODE")

	// Storage
	viper.BindEnv("storage.path", "STORAGE_PATH")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	viper.SetDefault("api.timeout_seconds", 30)
	viper.SetDefault("client.mode", "release")
	viper.SetDefault("storage.path", defaultStoragePath())
	viper.SetDefault("rate_limit.requests_per_second", 10)
	viper.SetDefault("rate_limit.burst", 20)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url is required")
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultStoragePath()
	}

	// 生产环境必须使用 https，避免 token 明文传输
	if cfg.Client.Mode == "release" && !strings.HasPrefix(cfg.API.BaseURL, "https://") {
		return nil, fmt.Errorf("api.base_url must use https in release mode, got %q", cfg.API.BaseURL)
	}

	if dir := filepath.Dir(cfg.Storage.Path); dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			os.MkdirAll(dir, 0700)
		}
	}

	return &cfg, nil
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "coder_edu_client.db"
	}
	return filepath.Join(home, ".coder_edu", "client.db")
}
