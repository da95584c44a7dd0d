// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"codeberg.org/zblogs/zblogs-api/internal/config"
	"codeberg.org/zblogs/zblogs-api/internal/database"
	"codeberg.org/zblogs/zblogs-api/internal/server"
	"github.com/urfave/cli/v3"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "zblogs-api",
		Usage:   "Start the Z Blogs account API",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags:   config.Flags(),
		Action:  server.Run,
		Commands: []*cli.Command{
			migrateCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(_ context.Context, cmd *cli.Command) error {
					// Open applies pending migrations.
					db, err := database.Open(cmd.String("database-dsn"))
					if err != nil {
						return err
					}
					defer db.Close()
					return printVersion(db.DB)
				},
			},
			{
				Name:  "down",
				Usage: "Roll back the most recent migration",
				Action: func(_ context.Context, cmd *cli.Command) error {
					db, err := database.Open(cmd.String("database-dsn"))
					if err != nil {
						return err
					}
					defer db.Close()
					if err := database.MigrateDown(db.DB); err != nil {
						return fmt.Errorf("failed to roll back migration: %w", err)
					}
					return printVersion(db.DB)
				},
			},
			{
				Name:  "version",
				Usage: "Print the applied schema version",
				Action: func(_ context.Context, cmd *cli.Command) error {
					db, err := database.Open(cmd.String("database-dsn"))
					if err != nil {
						return err
					}
					defer db.Close()
					return printVersion(db.DB)
				},
			},
		},
	}
}

func printVersion(db *sql.DB) error {
	v, err := database.Version(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	fmt.Printf("schema version %d\n", v)
	return nil
}
