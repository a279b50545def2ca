// Package command содержит команды командной строки notebuddy.
package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"notebuddy/internal/config"
	"notebuddy/pkg/logger"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTEBUDDY_LOGGER_MODE"
	EnvLoggerLevel = "NOTEBUDDY_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Main запускает приложение с командами serve и migrate.
func Main(args []string) int {
	app := &cli.App{
		Name:     "notebuddy",
		Usage:    "notes backend with AI summaries",
		Commands: []*cli.Command{serveCommand(), migrateCommand()},
		Before: func(cliCtx *cli.Context) error {
			env := logger.Production
			if strings.ToLower(os.Getenv(EnvLoggerMode)) == "development" {
				env = logger.Development
			}

			log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
			if err != nil {
				return fmt.Errorf("%s: %w", ErrInitLogger, err)
			}
			logger.SetGlobalLogger(log)

			cliCtx.Context = logger.NewRequestIDContext(cliCtx.Context, "")
			return nil
		},
		After: func(cliCtx *cli.Context) error {
			syncLogger(logger.Log(cliCtx.Context))
			return nil
		},
		ExitErrHandler: func(cliCtx *cli.Context, err error) {
			if err == nil {
				return
			}
			logger.Log(cliCtx.Context).Error(cliCtx.Context, "command failed", zap.Error(err))
		},
	}

	if err := app.Run(args); err != nil {
		return 1
	}
	return 0
}

// loadConfig читает конфигурацию и пересоздает глобальный логгер по ее настройкам.
func loadConfig(cliCtx *cli.Context) (*config.Config, error) {
	ctx := cliCtx.Context

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrLoadConfig, err)
	}

	log, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrInitLoggerWithConfig, err)
	}
	logger.SetGlobalLogger(log)

	return cfg, nil
}

func syncLogger(log *logger.Logger) {
	if err := log.Sync(); err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
			return
		}
		if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
			panic(writeErr)
		}
	}
}
