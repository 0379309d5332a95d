package cli

import (
	"ride-analytics-backend/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:          "ride-analytics",
	Short:        "Import ride CSV archives and run aggregate reports",
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "citibike.db",
		"SQLite database path (ignored when DB_DRIVER=postgres)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportErrorsCmd)
}

// openDatabase initializes logging and configuration, then opens and
// migrates the store. Shared by every subcommand.
func openDatabase() (*gorm.DB, error) {
	config.InitLogger()
	config.LoadEnv()

	db, err := config.ConfigureDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	config.Logger.Info("Database ready", zap.String("db", dbPath))
	return db, nil
}
