package config

import "time"

// Драйверы кэша коллекций заметок.
const (
	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
)

// CacheConfig - настройки кэша коллекций заметок.
type CacheConfig struct {
	Driver string        `yaml:"driver" env:"NOTEBUDDY_CACHE_DRIVER" env-default:"redis"`
	TTL    time.Duration `yaml:"ttl" env:"NOTEBUDDY_CACHE_TTL" env-default:"15m"`
	Size   int           `yaml:"size" env:"NOTEBUDDY_CACHE_SIZE" env-default:"1024"`
}
