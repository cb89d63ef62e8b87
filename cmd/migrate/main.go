package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/gradlink/alumni/internal/app/migrations"
	"github.com/gradlink/alumni/internal/bootstrap"
	"github.com/gradlink/alumni/internal/pkg/logger"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		os.Exit(1)
	}

	migrator, err := migrations.NewMigrator(cfg.GetMigrateConnectionString(), lgr)
	if err != nil {
		logger.Fatal().Err(err).Msg("Migration init failed")
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			lgr.Warn().Err(err).Msg("Failed to close migrator")
		}
	}()

	switch args[0] {
	case "up":
		err = migrator.Up()

	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps < 1 {
				lgr.Error().Str("steps", args[1]).Msg("down: invalid steps argument")
				os.Exit(1)
			}
		}
		err = migrator.Down(steps)

	case "version":
		var (
			v     uint
			dirty bool
		)
		v, dirty, err = migrator.Version()
		if err == nil {
			fmt.Printf("version: %d  dirty: %v\n", v, dirty)
		}

	case "force":
		if len(args) < 2 {
			lgr.Error().Msg("force: version argument required")
			os.Exit(1)
		}
		var v int
		v, err = strconv.Atoi(args[1])
		if err != nil {
			lgr.Error().Str("version", args[1]).Msg("force: invalid version")
			os.Exit(1)
		}
		err = migrator.Force(v)

	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		lgr.Error().Err(err).Str("command", args[0]).Msg("Migration command failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate <command> [args]

Commands:
  up           Apply all pending migrations
  down [N]     Roll back N migrations (default: 1)
  version      Print the current schema version
  force V      Set the schema version without running migrations

The database is read from configs/config.yaml (or CONFIG_PATH) and DB_* environment variables.`)
}
