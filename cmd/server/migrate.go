package main

import (
	"github.com/spf13/cobra"

	"github.com/avatarctic/clinic-console/internal/infrastructure/db"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run audit and subscription schema migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			database, err := db.NewDatabaseWithConfig(&cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := database.Migrate(cfg.Database.MigrationsPath); err != nil {
				return err
			}
			logger.Info("Migrations applied")
			return nil
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revert the last migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			database, err := db.NewDatabaseWithConfig(&cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := database.MigrateDown(cfg.Database.MigrationsPath, steps); err != nil {
				return err
			}
			logger.WithField("steps", steps).Info("Migrations reverted")
			return nil
		},
	}
	downCmd.Flags().Int("steps", 1, "number of migrations to revert")

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}
