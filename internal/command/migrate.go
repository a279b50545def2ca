package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"notebuddy/pkg/db/postgres"
	"notebuddy/pkg/logger"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations and exit",
		Flags: []cli.Flag{flagMigrations},
		Action: func(cliCtx *cli.Context) error {
			cfg, err := loadConfig(cliCtx)
			if err != nil {
				return err
			}

			ctx := cliCtx.Context
			dir := cliCtx.String(paramMigrations)
			logger.Log(ctx).Info(ctx, "applying migrations", zap.String("dir", dir))

			if err := postgres.MigrateDSN(ctx, cfg.Postgres.GetConnectionURL(), dir); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			return nil
		},
	}
}
