package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"financas/internal/backend"
	"financas/internal/storage"
	"financas/internal/storage/postgres"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long: `Apply, roll back or inspect schema migrations.

SQLite uses versioned SQL migrations. Postgres is brought up to date with
the model definitions and only supports "up".`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE:  runMigrateUp,
	})

	rollback := &cobra.Command{
		Use:   "rollback",
		Short: "Undo the most recent migrations (SQLite only)",
		Args:  cobra.NoArgs,
		RunE:  runMigrateRollback,
	}
	rollback.Flags().Int("steps", 1, "number of migrations to undo")
	cmd.AddCommand(rollback)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current schema version (SQLite only)",
		Args:  cobra.NoArgs,
		RunE:  runMigrateVersion,
	})

	return cmd
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	switch backend.BackendType(appCfg.DataBackend) {
	case backend.SQLiteBackend:
		slog.Info("Running SQLite migrations", "database", appCfg.SQLiteDBPath)
		if err := storage.RunMigrations(appCfg.SQLiteDBPath); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case backend.PostgresBackend:
		slog.Info("Migrating Postgres schema")
		store, err := postgres.Open(appCfg.DatabaseURL, true)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		defer func() { _ = store.Close() }()
	default:
		return fmt.Errorf("the %s backend has no schema to migrate", appCfg.DataBackend)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
	return nil
}

func runMigrateRollback(cmd *cobra.Command, _ []string) error {
	if err := requireSQLite("rollback"); err != nil {
		return err
	}
	steps, _ := cmd.Flags().GetInt("steps")
	slog.Info("Rolling back SQLite migrations", "database", appCfg.SQLiteDBPath, "steps", steps)
	if err := storage.RollbackMigrations(appCfg.SQLiteDBPath, steps); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
	return nil
}

func runMigrateVersion(cmd *cobra.Command, _ []string) error {
	if err := requireSQLite("version"); err != nil {
		return err
	}
	version, dirty, err := storage.MigrationVersion(appCfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d", version)
	if dirty {
		fmt.Fprint(cmd.OutOrStdout(), " (dirty)")
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func requireSQLite(op string) error {
	if backend.BackendType(appCfg.DataBackend) != backend.SQLiteBackend {
		return fmt.Errorf("migrate %s is only available for the sqlite backend", op)
	}
	return nil
}
