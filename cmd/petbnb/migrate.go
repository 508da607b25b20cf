package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/petbnb/marketplace/internal/infrastructure/db/postgres"
	"github.com/petbnb/marketplace/internal/pkg/config"
	"github.com/petbnb/marketplace/pkg/logger"
)

func newMigrateCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd.Context(), stderr, func(mg *postgres.Migrator) error {
					if err := mg.Up(); err != nil {
						return err
					}
					return printVersion(stdout, mg)
				})
			},
		},
		&cobra.Command{
			Use:   "down [N]",
			Short: "Roll back N migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 1 {
						return fmt.Errorf("down: N must be a positive integer, got %q", args[0])
					}
					steps = n
				}
				return withMigrator(cmd.Context(), stderr, func(mg *postgres.Migrator) error {
					if err := mg.Down(steps); err != nil {
						return err
					}
					return printVersion(stdout, mg)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd.Context(), stderr, func(mg *postgres.Migrator) error {
					return printVersion(stdout, mg)
				})
			},
		},
	)
	return cmd
}

func withMigrator(ctx context.Context, stderr io.Writer, fn func(*postgres.Migrator) error) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Storage != config.StoragePostgres {
		return fmt.Errorf("migrate: STORAGE is %q, migrations only apply to %q", cfg.Storage, config.StoragePostgres)
	}
	initLogger(cfg, stderr)

	db, err := openPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	mg, err := postgres.NewMigrator(db, logger.Component("migrate"))
	if err != nil {
		return err
	}
	return fn(mg)
}

func printVersion(w io.Writer, mg *postgres.Migrator) error {
	v, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	if dirty {
		_, err = fmt.Fprintf(w, "schema version %d (dirty)\n", v)
		return err
	}
	_, err = fmt.Fprintf(w, "schema version %d\n", v)
	return err
}
