package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"guitarlots/internal/config"
	"guitarlots/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the Postgres tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate(config.NeedDatabase); err != nil {
			return err
		}
		conn, err := db.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.Migrate(cmd.Context(), conn); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("schema up to date")
		return nil
	},
}
