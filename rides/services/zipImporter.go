package services

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ride-analytics-backend/db/models"

	"go.uber.org/zap"
)

// DefaultBatchSize is the accepted-row buffer size used when none is configured.
const DefaultBatchSize = 10000

// progressInterval is the row cadence of informational progress logs.
const progressInterval = 100000

// ImportStore is the storage surface the importer writes through. Error
// records commit independently of any open batch; UpsertBatch is atomic.
type ImportStore interface {
	LogImportError(ctx context.Context, importError *models.ImportError) error
	UpsertBatch(ctx context.Context, rows []*RideRow, sourceFile string) error
}

// ZipImporter streams every CSV entry of a ZIP archive into the store.
// Rows are processed strictly in arrival order; batch N commits or rolls
// back before batch N+1 opens. A batch failure is fatal to the run, there
// is no retry here.
type ZipImporter struct {
	store     ImportStore
	batchSize int
	logger    *zap.Logger
}

func NewZipImporter(store ImportStore, batchSize int, logger *zap.Logger) *ZipImporter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &ZipImporter{
		store:     store,
		batchSize: batchSize,
		logger:    logger,
	}
}

// ImportZip opens the archive and imports every nonzero-length CSV entry.
// The archive and each entry stream are released whether or not the import
// succeeds. An unreadable archive or an archive with no usable entries is
// reported before any batch work begins.
func (z *ZipImporter) ImportZip(ctx context.Context, zipPath string) error {
	archive, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open zip archive %s: %w", zipPath, err)
	}
	defer archive.Close()

	var entries []*zip.File
	for _, f := range archive.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".csv") && f.UncompressedSize64 > 0 {
			entries = append(entries, f)
		}
	}
	if len(entries) == 0 {
		return fmt.Errorf("no CSV entries in %s", zipPath)
	}

	z.logger.Info("CSV files in ZIP", zap.Int("count", len(entries)))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		z.logger.Info("Importing entry",
			zap.String("entry", entry.Name),
			zap.Uint64("bytes", entry.UncompressedSize64),
		)

		if err := z.importEntry(ctx, entry); err != nil {
			return fmt.Errorf("import %s: %w", entry.Name, err)
		}
	}

	return nil
}

func (z *ZipImporter) importEntry(ctx context.Context, entry *zip.File) error {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry stream: %w", err)
	}
	defer rc.Close()

	reader, err := newRideCSVReader(rc)
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	buffer := newRideBuffer(z.batchSize)
	processedSinceFlush := 0

	var totalRows, totalErrors int64

	for {
		// Cancellation is honored only between rows, never inside an
		// open transaction.
		if err := ctx.Err(); err != nil {
			return err
		}

		row, rejection, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}

		totalRows++
		processedSinceFlush++

		if rejection == nil {
			rejection = ValidateRow(row)
		}
		if rejection != nil {
			totalErrors++
			if err := z.logRejection(ctx, entry.Name, rejection); err != nil {
				return fmt.Errorf("record import error: %w", err)
			}
			continue
		}

		buffer.Put(row)

		if processedSinceFlush >= z.batchSize {
			if err := z.store.UpsertBatch(ctx, buffer.Rows(), entry.Name); err != nil {
				return err
			}
			buffer.Reset()
			processedSinceFlush = 0
		}

		if totalRows%progressInterval == 0 {
			z.logger.Info("Progress",
				zap.String("entry", entry.Name),
				zap.Int64("rows", totalRows),
				zap.Int64("errors", totalErrors),
			)
		}
	}

	if buffer.Len() > 0 {
		if err := z.store.UpsertBatch(ctx, buffer.Rows(), entry.Name); err != nil {
			return err
		}
		buffer.Reset()
	}

	z.logger.Info("Finished entry",
		zap.String("entry", entry.Name),
		zap.Int64("rows", totalRows),
		zap.Int64("errors", totalErrors),
	)
	return nil
}

func (z *ZipImporter) logRejection(ctx context.Context, sourceFile string, rejection *RowRejection) error {
	return z.store.LogImportError(ctx, &models.ImportError{
		SourceFile: sourceFile,
		RowNumber:  rejection.RowNumber,
		ErrorCode:  rejection.Code,
		RawLine:    rejection.RawLine,
		RideID:     rejection.RideID,
		OccurredAt: time.Now().UTC(),
	})
}
