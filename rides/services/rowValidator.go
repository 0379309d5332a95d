package services

import (
	"ride-analytics-backend/db/models"
	"ride-analytics-backend/utils"
)

// ValidateRow applies the domain rules to a decoded row. It is pure and
// stateless; it returns nil for an acceptable row. A ride that starts and
// ends at the same instant is valid.
func ValidateRow(row *RideRow) *RowRejection {
	if row.RideID == "" {
		return &RowRejection{
			Code:      models.MissingRideIDCode,
			RowNumber: row.RowNumber,
			RawLine:   utils.Truncate(row.RawLine, maxRawLineLength),
		}
	}

	if row.EndedAt.Before(row.StartedAt) {
		rideID := row.RideID
		return &RowRejection{
			Code:      models.EndBeforeStartCode,
			RowNumber: row.RowNumber,
			RawLine:   utils.Truncate(row.RawLine, maxRawLineLength),
			RideID:    &rideID,
		}
	}

	return nil
}
