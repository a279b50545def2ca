// Package config содержит конфигурацию сервиса notebuddy.
package config

import (
	"context"
	"os"

	"go.uber.org/zap"

	pkgconfig "notebuddy/pkg/config"
	"notebuddy/pkg/logger"
)

// EnvConfigPath - переменная окружения с путем к YAML-файлу конфигурации.
const EnvConfigPath = "NOTEBUDDY_CONFIG_PATH"

const serviceName = "notebuddy"

// Config представляет полную конфигурацию сервиса.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	JWT      JWTConfig      `yaml:"jwt"`
	LLM      LLMConfig      `yaml:"llm"`
	OAuth    OAuthConfig    `yaml:"oauth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load загружает конфигурацию из файла NOTEBUDDY_CONFIG_PATH (если задан)
// и переменных окружения.
func Load(ctx context.Context) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, serviceName, os.Getenv(EnvConfigPath))
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, "effective configuration",
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.String("redis_address", cfg.Redis.GetAddress()),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Bool("oauth_google_enabled", cfg.OAuth.GoogleEnabled()),
		zap.String("log_level", cfg.Logging.Level),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout),
	)

	return cfg, nil
}
