package cli

import (
	"ride-analytics-backend/config"
	"ride-analytics-backend/db/models"
	"ride-analytics-backend/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reportErrorsCmd = &cobra.Command{
	Use:   "report-errors",
	Short: "Export the recorded import errors to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}

		var records []models.ImportError
		if err := db.WithContext(cmd.Context()).Order("occurred_at").Find(&records).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			config.Logger.Info("No import errors recorded")
			return nil
		}

		path, err := utils.GenerateImportErrorReport(records, "import_errors")
		if err != nil {
			return err
		}

		config.Logger.Info("Error report written",
			zap.String("path", path),
			zap.Int("records", len(records)),
		)
		return nil
	},
}
