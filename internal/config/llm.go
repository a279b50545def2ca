package config

import (
	"time"

	"notebuddy/pkg/resilience"
)

// LLMConfig - настройки сервиса генерации резюме.
type LLMConfig struct {
	Provider string `yaml:"provider" env:"NOTEBUDDY_LLM_PROVIDER" env-default:"openai"`
	BaseURL  string `yaml:"base_url" env:"NOTEBUDDY_LLM_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	APIKey   string `yaml:"api_key" env:"NOTEBUDDY_LLM_API_KEY" env-default:""`
	Model    string `yaml:"model" env:"NOTEBUDDY_LLM_MODEL" env-default:"gemini-2.0-flash"`

	BreakerFailures    int           `yaml:"breaker_failures" env:"NOTEBUDDY_LLM_BREAKER_FAILURES" env-default:"5"`
	BreakerOpenTimeout time.Duration `yaml:"breaker_open_timeout" env:"NOTEBUDDY_LLM_BREAKER_OPEN_TIMEOUT" env-default:"30s"`
}

// BreakerConfig возвращает параметры circuit breaker.
func (c *LLMConfig) BreakerConfig() resilience.Config {
	return resilience.Config{
		FailureThreshold: c.BreakerFailures,
		OpenTimeout:      c.BreakerOpenTimeout,
		SuccessThreshold: 1,
	}
}
