package config

import (
	"strings"
	"time"
)

// OAuthConfig - настройки входа через внешних провайдеров.
type OAuthConfig struct {
	GoogleKey    string        `yaml:"google_key" env:"NOTEBUDDY_OAUTH_GOOGLE_KEY" env-default:""`
	GoogleSecret string        `yaml:"google_secret" env:"NOTEBUDDY_OAUTH_GOOGLE_SECRET" env-default:""`
	BaseURL      string        `yaml:"base_url" env:"NOTEBUDDY_OAUTH_BASE_URL" env-default:"http://localhost:8080"`
	StateTTL     time.Duration `yaml:"state_ttl" env:"NOTEBUDDY_OAUTH_STATE_TTL" env-default:"10m"`
}

// GoogleEnabled сообщает, заданы ли ключи Google.
func (c *OAuthConfig) GoogleEnabled() bool {
	return c.GoogleKey != "" && c.GoogleSecret != ""
}

// CallbackURL возвращает адрес обратного вызова для провайдера.
func (c *OAuthConfig) CallbackURL(provider string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/api/v1/auth/oauth/" + provider + "/callback"
}
