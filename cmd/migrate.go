package cmd

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/curaious/civicpulse/internal/config"
	"github.com/curaious/civicpulse/internal/db"
	"github.com/curaious/civicpulse/internal/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the civicpulse database schema",
	Long: "Manage the Postgres schema behind users, projects, comments, reports and analytics events.\n" +
		"Applied versions are tracked in metadata.schema_migrations. `server` applies pending ones on start.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(cmd.Help())
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List every schema version and whether it is applied",
	Run: func(cmd *cobra.Command, args []string) {
		withMigrator(func(m *migrations.Migrator) error {
			return m.MigrationStatus()
		})
	},
}

var migrateCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Scaffold a new migration under internal/migrations",
	Long:  "Writes <timestamp>_<name>.go with empty up and down funcs. Run it from the repository root.",
	Run: func(cmd *cobra.Command, args []string) {
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			fmt.Println("Unable to read flag `name`", err)
			os.Exit(1)
		}

		withMigrator(func(m *migrations.Migrator) error {
			return m.CreateMigration(name)
		})
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending schema versions",
	Long:  "Applies every pending version in one transaction.\nWith --step N only the next N pending versions are applied.",
	Run: func(cmd *cobra.Command, args []string) {
		step := stepFlag(cmd)
		withMigrator(func(m *migrations.Migrator) error {
			return m.Up(step)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert applied schema versions",
	Long:  "Reverts every applied version, newest first, dropping the civicpulse tables.\nWith --step N only the latest N versions are reverted.",
	Run: func(cmd *cobra.Command, args []string) {
		step := stepFlag(cmd)
		withMigrator(func(m *migrations.Migrator) error {
			return m.Down(step)
		})
	},
}

// withMigrator connects, runs fn and exits non-zero on failure.
func withMigrator(fn func(m *migrations.Migrator) error) {
	conn := db.NewConn(config.ReadConfig())

	err := runMigrator(conn, fn)
	conn.Close()
	if err != nil {
		fmt.Println("Migration failed", err)
		os.Exit(1)
	}
}

func runMigrator(conn *sqlx.DB, fn func(m *migrations.Migrator) error) error {
	m, err := migrations.NewMigrator(conn)
	if err != nil {
		return fmt.Errorf("unable to initialize migrator: %w", err)
	}
	return fn(m)
}

func stepFlag(cmd *cobra.Command) int {
	step, err := cmd.Flags().GetInt("step")
	if err != nil {
		fmt.Println("Unable to read flag `step`", err)
		os.Exit(1)
	}
	if step < 0 {
		fmt.Println("--step must not be negative")
		os.Exit(1)
	}
	return step
}

// Register the "migrate" command
func init() {
	migrateCreateCmd.Flags().StringP("name", "n", "", "Name for the migration")
	migrateCmd.AddCommand(migrateCreateCmd)

	migrateUpCmd.Flags().IntP("step", "s", 0, "Number of pending versions to apply (0 = all)")
	migrateCmd.AddCommand(migrateUpCmd)

	migrateDownCmd.Flags().IntP("step", "s", 0, "Number of applied versions to revert (0 = all)")
	migrateCmd.AddCommand(migrateDownCmd)

	migrateCmd.AddCommand(migrateStatusCmd)

	rootCmd.AddCommand(migrateCmd)
}
