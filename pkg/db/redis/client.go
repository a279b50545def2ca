package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notebuddy/pkg/logger"
)

// Сообщения логгера и ошибок.
const (
	LogConnecting = "connecting to Redis"
	LogConnected  = "successfully connected to Redis"
	ErrConnect    = "failed to connect to Redis"
)

// Address возвращает host:port.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewClient создает клиента и проверяет соединение командой PING.
func NewClient(ctx context.Context, cfg *Config) (*goredis.Client, error) {
	log := logger.Log(ctx).With(zap.String("redis_address", cfg.Address()))
	log.Info(ctx, LogConnecting)

	client := goredis.NewClient(&goredis.Options{
		Addr:            cfg.Address(),
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdle,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,
		ConnMaxLifetime: cfg.MaxConnLifetime,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Error(ctx, ErrConnect, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrConnect, err)
	}

	log.Info(ctx, LogConnected)
	return client, nil
}
