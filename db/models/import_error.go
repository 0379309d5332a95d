package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportErrorCode classifies a rejected or undecodable import row.
type ImportErrorCode string

const (
	UnknownErrorCode    ImportErrorCode = "Unknown"
	MissingRideIDCode   ImportErrorCode = "MissingRideId"
	DateParseFailedCode ImportErrorCode = "DateParseFailed"
	EndBeforeStartCode  ImportErrorCode = "EndBeforeStart"
	CsvBadDataCode      ImportErrorCode = "CsvBadData"
)

// ImportError is one rejected import row. Rows are append-only; they are
// written outside the batch transaction so they survive a later rollback.
type ImportError struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	SourceFile string `gorm:"type:varchar(260)" json:"source_file"`
	RowNumber  int    `json:"row_number"` // 1-based, including the header row

	ErrorCode ImportErrorCode `gorm:"type:varchar(64);index" json:"error_code"`

	// RawLine is capped before it gets here so a single broken row cannot
	// blow up row size in storage.
	RawLine string  `gorm:"type:varchar(2000)" json:"raw_line"`
	RideID  *string `gorm:"type:varchar(64)" json:"ride_id"`

	OccurredAt time.Time `gorm:"index" json:"occurred_at"`
}

func (e *ImportError) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
