package command

import "github.com/urfave/cli/v2"

const paramMigrations = "migrations"

var flagMigrations = &cli.StringFlag{
	Name:    paramMigrations,
	Value:   "migrations",
	EnvVars: []string{"NOTEBUDDY_MIGRATIONS_DIR"},
	Usage:   "directory with SQL migrations",
}
