package main

import (
	"errors"
	"fmt"
	"os"

	"buxta-backend/internal/config"
	"buxta-backend/internal/infrastructure/database"
	"buxta-backend/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "migrate",
		Usage: "manage the buxta database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "postgres connection URL (defaults to the DB_* environment)",
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Before: func(ctx *cli.Context) error {
			logger.Init(os.Getenv("APP_ENV"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: func(ctx *cli.Context) error {
					return database.MigrateUp(databaseURL(ctx))
				},
			},
			{
				Name:  "down",
				Usage: "roll back migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
					&cli.BoolFlag{Name: "all", Usage: "roll back every migration"},
				},
				Action: func(ctx *cli.Context) error {
					return withMigrator(ctx, func(m *migrate.Migrate) error {
						if ctx.Bool("all") {
							return m.Down()
						}
						steps := ctx.Int("steps")
						if steps < 1 {
							return fmt.Errorf("steps must be at least 1")
						}
						return m.Steps(-steps)
					})
				},
			},
			{
				Name:  "version",
				Usage: "print the current schema version",
				Action: func(ctx *cli.Context) error {
					return withMigrator(ctx, func(m *migrate.Migrate) error {
						version, dirty, err := m.Version()
						if errors.Is(err, migrate.ErrNilVersion) {
							fmt.Println("no migrations applied")
							return nil
						}
						if err != nil {
							return err
						}
						fmt.Printf("version %d (dirty: %t)\n", version, dirty)
						return nil
					})
				},
			},
			{
				Name:      "force",
				Usage:     "set the schema version without running migrations (clears the dirty flag)",
				ArgsUsage: "VERSION",
				Action: func(ctx *cli.Context) error {
					var version int
					if _, err := fmt.Sscanf(ctx.Args().First(), "%d", &version); err != nil {
						return cli.Exit("force requires a numeric VERSION", 1)
					}
					return withMigrator(ctx, func(m *migrate.Migrate) error {
						return m.Force(version)
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}

func databaseURL(ctx *cli.Context) string {
	if url := ctx.String("database-url"); url != "" {
		return url
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	return cfg.Database.URL()
}

func withMigrator(ctx *cli.Context, fn func(*migrate.Migrate) error) error {
	m, err := database.NewMigrator(databaseURL(ctx))
	if err != nil {
		return err
	}
	defer m.Close()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	log.Info().Str("command", ctx.Command.Name).Msg("done")
	return nil
}
