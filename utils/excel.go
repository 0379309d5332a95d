package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ride-analytics-backend/db/models"

	"github.com/xuri/excelize/v2"
)

// EnsureDirectoryExists ensures the specified directory exists before file saving
func EnsureDirectoryExists(filePath string) error {
	dir := filepath.Dir(filePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err := os.MkdirAll(dir, 0755) // Create the directory with appropriate permissions
		if err != nil {
			return fmt.Errorf("error creating directory: %v", err)
		}
	}
	return nil
}

var importErrorReportHeaders = []string{
	"SourceFile", "RowNumber", "ErrorCode", "RideId", "OccurredAt", "RawLine",
}

// GenerateImportErrorReport writes the given import error records to an
// Excel workbook under ./public/files and returns the saved path.
func GenerateImportErrorReport(records []models.ImportError, reportName string) (string, error) {
	dirPath := "./public/files"
	if err := EnsureDirectoryExists(filepath.Join(dirPath, "report.xlsx")); err != nil {
		return "", fmt.Errorf("failed to ensure directory exists: %v", err)
	}

	f := excelize.NewFile()

	sheetName := "Sheet1"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}

	for col, header := range importErrorReportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return "", fmt.Errorf("error setting header %s: %v", header, err)
		}
	}

	for row, record := range records {
		rideID := ""
		if record.RideID != nil {
			rideID = *record.RideID
		}
		values := []interface{}{
			record.SourceFile,
			record.RowNumber,
			string(record.ErrorCode),
			rideID,
			record.OccurredAt.Format(time.RFC3339),
			record.RawLine,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return "", fmt.Errorf("error setting value at %s: %v", cell, err)
			}
		}
	}

	f.SetActiveSheet(index)

	fileName := fmt.Sprintf("%s_%s.xlsx", reportName, time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(dirPath, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
