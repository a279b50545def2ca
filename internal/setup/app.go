// Package setup собирает зависимости сервиса notebuddy из конфигурации.
package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notebuddy/internal/auth/adapters/events"
	"notebuddy/internal/auth/adapters/oauth"
	authpg "notebuddy/internal/auth/adapters/postgres"
	authsvc "notebuddy/internal/auth/adapters/services"
	authapp "notebuddy/internal/auth/app"
	"notebuddy/internal/config"
	gatewayhttp "notebuddy/internal/gateway/app/http"
	notescache "notebuddy/internal/notes/adapters/cache"
	notespg "notebuddy/internal/notes/adapters/postgres"
	"notebuddy/internal/notes/adapters/summary"
	notesapp "notebuddy/internal/notes/app"
	"notebuddy/internal/notes/ports/cache"
	"notebuddy/pkg/db/postgres"
	"notebuddy/pkg/db/redis"
	"notebuddy/pkg/logger"
	"notebuddy/pkg/metrics"
	"notebuddy/pkg/resilience"
)

// Сообщения логгера.
const (
	LogInitStorage  = "initializing storage"
	LogInitServices = "initializing services"
	LogInitHTTP     = "initializing HTTP server"
	LogOAuthEnabled = "oauth providers configured"

	ErrConnectPostgres = "failed to connect to postgres"
	ErrConnectRedis    = "failed to connect to redis"
	ErrCreateCache     = "failed to create notes cache"
	ErrCreateLLM       = "failed to create llm client"
)

// ErrUnknownCacheDriver возвращается для неизвестного драйвера кэша.
var ErrUnknownCacheDriver = errors.New("unknown cache driver")

// App - собранный сервис.
type App struct {
	Config   *config.Config
	Database *postgres.Database
	Redis    *goredis.Client
	Metrics  *metrics.Metrics
	Auth     *authapp.AuthUseCaseImpl
	Notes    *notesapp.NotesSync
	Server   *fiber.App
}

// Build подключается к хранилищам и связывает сервисы.
// При ошибке уже открытые соединения закрываются.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Log(ctx)
	app := &App{Config: cfg, Metrics: metrics.New()}

	log.Info(ctx, LogInitStorage)
	database, err := postgres.New(ctx, cfg.Postgres.GetDSN(), cfg.Postgres.MinConn, cfg.Postgres.MaxConn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrConnectPostgres, err)
	}
	app.Database = database

	redisClient, err := redis.NewClient(ctx, cfg.Redis.ToClientConfig())
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("%s: %w", ErrConnectRedis, err)
	}
	app.Redis = redisClient

	log.Info(ctx, LogInitServices)
	notesCache, err := NewNotesCache(cfg.Cache, redisClient)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("%s: %w", ErrCreateCache, err)
	}

	completer, err := summary.NewGenAICompleter(ctx, summary.GenAIConfig{
		Provider: cfg.LLM.Provider,
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
	})
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("%s: %w", ErrCreateLLM, err)
	}
	summaryClient := summary.NewClient(completer, resilience.NewCircuitBreaker("llm", cfg.LLM.BreakerConfig()))

	pool := database.Pool()
	app.Notes = notesapp.NewNotesSync(
		notespg.NewNoteRepository(pool),
		notesCache,
		summaryClient,
		app.Metrics,
	)

	authServices := authsvc.NewServiceFactory(cfg.JWT)
	app.Auth = authapp.NewAuthUseCase(
		authpg.NewUserRepository(pool),
		authpg.NewTokenRepository(pool),
		authServices.PasswordService(),
		authServices.TokenService(),
		events.NewPublisher(redisClient),
	)

	providers := oauth.ProvidersFromConfig(cfg.OAuth)
	if len(providers) > 0 {
		gothService := oauth.NewGothService(oauth.NewRedisStateStore(redisClient), cfg.OAuth.StateTTL, providers...)
		app.Auth.WithOAuth(gothService)
		log.Info(ctx, LogOAuthEnabled, zap.Strings("providers", gothService.Providers()))
	}

	log.Info(ctx, LogInitHTTP)
	app.Server = gatewayhttp.NewServer(gatewayhttp.Config{
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, gatewayhttp.Dependencies{
		Auth:    app.Auth,
		Users:   authapp.NewUserUseCase(authpg.NewUserRepository(pool)),
		Notes:   app.Notes,
		Metrics: app.Metrics,
		Health:  app.Ping,
	})

	return app, nil
}

// NewNotesCache создает кэш коллекций заметок по драйверу из конфигурации.
func NewNotesCache(cfg config.CacheConfig, client goredis.UniversalClient) (cache.NotesCache, error) {
	switch cfg.Driver {
	case config.CacheDriverRedis:
		return notescache.NewRedisCache(client, cfg.TTL), nil
	case config.CacheDriverMemory:
		return notescache.NewMemoryCache(cfg.Size, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCacheDriver, cfg.Driver)
	}
}

// Ping проверяет доступность Postgres и Redis.
func (a *App) Ping(ctx context.Context) error {
	if err := a.Database.Ping(ctx); err != nil {
		return err
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close закрывает соединения с хранилищами.
func (a *App) Close(ctx context.Context) {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log(ctx).Warn(ctx, "failed to close redis client", zap.Error(err))
		}
	}
	if a.Database != nil {
		a.Database.Close(ctx)
	}
}
