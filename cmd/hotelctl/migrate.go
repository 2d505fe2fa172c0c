package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hotelhub/service-booking/internal/common/database"
	"github.com/hotelhub/service-booking/internal/config"
	"github.com/hotelhub/service-booking/migrations"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(migrateUpCmd(), migrateDownCmd(), migrateVersionCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, err := databaseURL()
			if err != nil {
				return err
			}
			if err := database.RunMigrations(dbURL, migrations.FS, zap.NewNop()); err != nil {
				return err
			}
			return printVersion(cmd, dbURL)
		},
	}
}

func migrateDownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			dbURL, err := databaseURL()
			if err != nil {
				return err
			}
			if err := database.RollbackMigrations(dbURL, migrations.FS, steps); err != nil {
				return err
			}
			return printVersion(cmd, dbURL)
		},
	}
	cmd.Flags().Int("steps", 1, "number of migrations to revert")
	return cmd
}

func migrateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, err := databaseURL()
			if err != nil {
				return err
			}
			return printVersion(cmd, dbURL)
		},
	}
}

func databaseURL() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.DBConfig.DatabaseURL(), nil
}

func printVersion(cmd *cobra.Command, dbURL string) error {
	version, dirty, err := database.MigrationVersion(dbURL, migrations.FS)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}
