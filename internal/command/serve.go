package command

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"notebuddy/internal/auth/adapters/events"
	"notebuddy/internal/setup"
	"notebuddy/pkg/db/postgres"
	"notebuddy/pkg/logger"
	"notebuddy/pkg/shutdown"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "notebuddy service started"
	LogServiceShutdownDone = "notebuddy service shutdown complete"
	LogStoppingHTTP        = "stopping HTTP server"
	LogStartingHTTP        = "starting HTTP server"

	ErrStartHTTPServer    = "failed to start HTTP server"
	ErrSubscribeSessions  = "failed to subscribe to session events"
	ErrApplyingMigrations = "failed to apply migrations"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Apply migrations and start the HTTP API",
		Flags: []cli.Flag{flagMigrations},
		Action: func(cliCtx *cli.Context) error {
			cfg, err := loadConfig(cliCtx)
			if err != nil {
				return err
			}

			ctx := cliCtx.Context
			log := logger.Log(ctx)
			log.Info(ctx, LogServiceStarted,
				zap.String("log_level", cfg.Logging.Level),
				zap.String("startup_time", time.Now().Format(time.RFC3339)))

			if err := postgres.MigrateDSN(ctx, cfg.Postgres.GetConnectionURL(), cliCtx.String(paramMigrations)); err != nil {
				return fmt.Errorf("%s: %w", ErrApplyingMigrations, err)
			}

			app, err := setup.Build(ctx, cfg)
			if err != nil {
				return err
			}

			background, stopBackground := context.WithCancel(ctx)
			defer stopBackground()

			subscription, err := events.Subscribe(background, app.Redis)
			if err != nil {
				app.Close(ctx)
				return fmt.Errorf("%s: %w", ErrSubscribeSessions, err)
			}
			go subscription.Run(background, setup.SessionEventHandler(app.Notes))
			go setup.RunTokenCleanup(background, app.Auth, cfg.JWT.CleanupInterval)

			waitCtx, stopWaiting := context.WithCancel(ctx)
			defer stopWaiting()

			serverErr := make(chan error, 1)
			log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
			go func() {
				if err := app.Server.Listen(cfg.HTTP.GetAddress(), fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
					log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
					serverErr <- err
					stopWaiting()
				}
			}()

			shutdown.Wait(waitCtx, cfg.Shutdown.GetTimeout(),
				func(ctx context.Context) error {
					log.Info(ctx, LogStoppingHTTP)
					err := app.Server.ShutdownWithContext(ctx)
					stopBackground()
					app.Close(ctx)
					return err
				},
			)

			select {
			case err := <-serverErr:
				return fmt.Errorf("%s: %w", ErrStartHTTPServer, err)
			default:
			}

			log.Info(ctx, LogServiceShutdownDone)
			return nil
		},
	}
}
