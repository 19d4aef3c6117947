package main

import (
	"github.com/spf13/cobra"

	"github.com/dtroode/tap-portal-server/database"
	"github.com/dtroode/tap-portal-server/internal/config"
	"github.com/dtroode/tap-portal-server/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.NewConfig()
		if err != nil {
			return err
		}
		log := logger.New(cfg.LogLevel)

		if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
			return err
		}

		log.Info("migrations applied")
		return nil
	},
}
