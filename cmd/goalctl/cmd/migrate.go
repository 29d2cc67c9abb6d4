package cmd

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/goalweek/goalweek/internal/config"
	"github.com/goalweek/goalweek/internal/db"
)

func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(db.RunMigrations)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(db.MigrateDown)
		},
	})

	return migrateCmd
}

func runMigration(migrate func(conn *sql.DB, driver string) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	conn, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	return migrate(conn.DB, cfg.DBDriver)
}
