package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	Env            string `mapstructure:"VIZ_ENV"`
	NodeURL        string `mapstructure:"VIZ_NODE_URL"`
	DefaultAccount string `mapstructure:"VIZ_DEFAULT_ACCOUNT"`

	RPC      RPCConfig      `mapstructure:",squash"`
	Cache    CacheConfig    `mapstructure:",squash"`
	Exporter ExporterConfig `mapstructure:",squash"`
}

type RPCConfig struct {
	NumRetries     int           `mapstructure:"VIZ_RPC_NUM_RETRIES"`
	ConnectTimeout time.Duration `mapstructure:"VIZ_RPC_CONNECT_TIMEOUT"`
	CallTimeout    time.Duration `mapstructure:"VIZ_RPC_CALL_TIMEOUT"`
	RateLimitRPS   float64       `mapstructure:"VIZ_RPC_RATE_LIMIT_RPS"` // 0 disables limiting
}

type CacheConfig struct {
	Backend    string        `mapstructure:"VIZ_CACHE_BACKEND"` // "memory" or "redis"
	RedisURL   string        `mapstructure:"VIZ_CACHE_REDIS_URL"`
	AccountTTL time.Duration `mapstructure:"VIZ_CACHE_ACCOUNT_TTL"`
}

type ExporterConfig struct {
	HTTPAddr           string        `mapstructure:"VIZ_EXPORTER_HTTP_ADDR"`
	PollInterval       time.Duration `mapstructure:"VIZ_EXPORTER_POLL_INTERVAL"`
	CORSAllowedOrigins []string      `mapstructure:"VIZ_EXPORTER_CORS_ALLOWED_ORIGINS"`
}

func loadDotEnvFiles() {
	candidates := []string{
		".env",
		filepath.Join("..", ".env"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			_ = gotenv.Load(path) // env vars already set take precedence
		}
	}
}

func Load() (*Config, error) {
	loadDotEnvFiles()

	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("VIZ_ENV", "dev")
	viper.SetDefault("VIZ_NODE_URL", "wss://node.viz.cx/ws")
	viper.SetDefault("VIZ_DEFAULT_ACCOUNT", "")
	viper.SetDefault("VIZ_RPC_NUM_RETRIES", 2)
	viper.SetDefault("VIZ_RPC_CONNECT_TIMEOUT", "10s")
	viper.SetDefault("VIZ_RPC_CALL_TIMEOUT", "30s")
	viper.SetDefault("VIZ_RPC_RATE_LIMIT_RPS", 0.0)
	viper.SetDefault("VIZ_CACHE_BACKEND", "memory")
	viper.SetDefault("VIZ_CACHE_REDIS_URL", "redis://127.0.0.1:6379/0")
	viper.SetDefault("VIZ_CACHE_ACCOUNT_TTL", "5m")
	viper.SetDefault("VIZ_EXPORTER_HTTP_ADDR", ":8080")
	viper.SetDefault("VIZ_EXPORTER_POLL_INTERVAL", "3s")
	viper.SetDefault("VIZ_EXPORTER_CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	if origins := viper.GetString("VIZ_EXPORTER_CORS_ALLOWED_ORIGINS"); origins != "" {
		viper.Set("VIZ_EXPORTER_CORS_ALLOWED_ORIGINS", strings.Split(origins, ","))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.NodeURL == "" {
		return fmt.Errorf("VIZ_NODE_URL is required")
	}
	u, err := url.Parse(c.NodeURL)
	if err != nil {
		return fmt.Errorf("VIZ_NODE_URL is not a valid URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
	default:
		return fmt.Errorf("VIZ_NODE_URL has unsupported scheme %q (must be ws, wss, http, or https)", u.Scheme)
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid VIZ_CACHE_BACKEND %q (must be memory or redis)", c.Cache.Backend)
	}
	if c.RPC.NumRetries < 0 {
		return fmt.Errorf("VIZ_RPC_NUM_RETRIES must not be negative")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}
