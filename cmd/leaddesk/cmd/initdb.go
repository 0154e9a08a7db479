package cmd

import (
	"fmt"

	"github.com/leaddesk/leaddesk/internal/store"
	"github.com/spf13/cobra"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Initialize the database schema",
	Long: `Initialize the leaddesk database with the leads and emails tables.

Safe to run multiple times - tables are only created if they don't
already exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := cfg.DatabasePath()
		logger.Info("initializing database", "path", dbPath)

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := s.InitSchema(); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}

		logger.Info("database initialized successfully")
		fmt.Printf("Database: %s\n", dbPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}
