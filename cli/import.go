package cli

import (
	"ride-analytics-backend/config"
	"ride-analytics-backend/rides/repositories"
	"ride-analytics-backend/rides/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var batchSize int

var importCmd = &cobra.Command{
	Use:   "import <zip-path>",
	Short: "Import every CSV entry of a ride ZIP archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}

		repo := repositories.NewRideImportRepository(db, config.Logger)
		importer := services.NewZipImporter(repo, batchSize, config.Logger)

		config.Logger.Info("Starting import",
			zap.String("zip", args[0]),
			zap.Int("batch_size", batchSize),
		)

		if err := importer.ImportZip(cmd.Context(), args[0]); err != nil {
			return err
		}

		config.Logger.Info("Import done")
		return nil
	},
}

func init() {
	importCmd.Flags().IntVar(&batchSize, "batch", services.DefaultBatchSize,
		"rows buffered per batch transaction")
}
