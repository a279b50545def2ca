// Package config загружает конфигурацию из YAML-файла и переменных окружения.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"notebuddy/pkg/logger"
)

const (
	msgLoadingConfiguration = "loading configuration"
	msgConfigurationLoaded  = "configuration loaded successfully"
	msgConfigFileMissing    = "configuration file not found, using environment only"

	errFailedLoadConfiguration = "failed to load configuration"

	attrService = "service"
	attrPath    = "path"
)

// Load читает конфигурацию сервиса в структуру T. Если path указывает на
// существующий файл, сначала читается он, затем переменные окружения
// перекрывают значения. Иначе используются только окружение и env-default.
func Load[T any](ctx context.Context, serviceName, path string) (*T, error) {
	log := logger.Log(ctx).With(zap.String(attrService, serviceName))
	log.Info(ctx, msgLoadingConfiguration, zap.String(attrPath, path))

	var cfg T

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				log.Error(ctx, errFailedLoadConfiguration, zap.Error(err))
				return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
			}
			log.Info(ctx, msgConfigurationLoaded)
			return &cfg, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
		}
		log.Warn(ctx, msgConfigFileMissing, zap.String(attrPath, path))
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Error(ctx, errFailedLoadConfiguration, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	log.Info(ctx, msgConfigurationLoaded)
	return &cfg, nil
}
