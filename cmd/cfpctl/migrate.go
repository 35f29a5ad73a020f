package main

import (
	"fmt"

	"cfp-engine/internal/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := database.NewMigrationExecutor(db.DB).RunMigrations(cmd.Context(), settings.Database.MigrationsPath)
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		if len(applied) == 0 {
			printStatus("✓", "Database is up to date", color.FgGreen)
			return nil
		}
		for _, version := range applied {
			printStatus("✓", "Applied "+version, color.FgGreen)
		}
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		states, err := database.NewMigrationExecutor(db.DB).Status(cmd.Context(), settings.Database.MigrationsPath)
		if err != nil {
			return fmt.Errorf("read migration status: %w", err)
		}
		for _, s := range states {
			if s.AppliedAt == nil {
				printStatus("•", fmt.Sprintf("%s %s (pending)", s.Version, s.Title), color.FgYellow)
				continue
			}
			printStatus("✓", fmt.Sprintf("%s %s (applied %s)", s.Version, s.Title, s.AppliedAt.Format("2006-01-02 15:04:05")), color.FgGreen)
		}
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		version, err := database.NewMigrationExecutor(db.DB).Rollback(cmd.Context(), settings.Database.MigrationsPath)
		if err != nil {
			return fmt.Errorf("roll back migration: %w", err)
		}
		if version == "" {
			printStatus("•", "Nothing to roll back", color.FgYellow)
			return nil
		}
		printStatus("✓", "Rolled back "+version, color.FgGreen)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
