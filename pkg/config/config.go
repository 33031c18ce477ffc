package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App   AppConfig
	API   APIConfig
	Auth  AuthConfig
	State StateConfig
	Redis RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	if err := cfg.State.validate(cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL        string        `envconfig:"STOREFRONT_API_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"STOREFRONT_API_REQUEST_TIMEOUT" default:"30s"`
	UserAgent      string        `envconfig:"STOREFRONT_API_USER_AGENT" default:"storefront-client/1.0"`
}

func (a APIConfig) validate() error {
	parsed, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api base url must be http(s), got %q", a.BaseURL)
	}
	return nil
}

type AuthConfig struct {
	ExpirySkew  time.Duration `envconfig:"STOREFRONT_AUTH_EXPIRY_SKEW" default:"30s"`
	RefreshPath string        `envconfig:"STOREFRONT_AUTH_REFRESH_PATH" default:"/auth/refresh-token"`
}

// StateBackend selects where durable client state lives.
const (
	StateBackendFile  = "file"
	StateBackendRedis = "redis"
)

type StateConfig struct {
	Backend  string `envconfig:"STOREFRONT_STATE_BACKEND" default:"file"`
	FilePath string `envconfig:"STOREFRONT_STATE_FILE_PATH" default:".storefront/state.json"`
}

func (s StateConfig) validate(redis RedisConfig) error {
	switch s.Backend {
	case StateBackendFile:
		if strings.TrimSpace(s.FilePath) == "" {
			return fmt.Errorf("%s is required for the file state backend", EnvStateFilePath)
		}
	case StateBackendRedis:
		if redis.URL == "" && redis.Address == "" {
			return fmt.Errorf("%s or %s is required for the redis state backend", EnvRedisURL, EnvRedisAddr)
		}
	default:
		return fmt.Errorf("unknown state backend %q", s.Backend)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}
