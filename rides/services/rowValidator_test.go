package services

import (
	"testing"
	"time"

	"ride-analytics-backend/db/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRowMissingRideID(t *testing.T) {
	start := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

	row := &RideRow{
		RideID:    "",
		StartedAt: start,
		EndedAt:   start.Add(time.Minute),
		RowNumber: 7,
		RawLine:   ",,2024-07-01 08:00:00,2024-07-01 08:01:00",
	}

	rejection := ValidateRow(row)
	require.NotNil(t, rejection)
	assert.Equal(t, models.MissingRideIDCode, rejection.Code)
	assert.Equal(t, 7, rejection.RowNumber)
	assert.Equal(t, row.RawLine, rejection.RawLine)
	assert.Nil(t, rejection.RideID)
}

func TestValidateRowEndBeforeStart(t *testing.T) {
	start := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	row := &RideRow{
		RideID:    "r2",
		StartedAt: start,
		EndedAt:   start.Add(-time.Second),
		RowNumber: 3,
	}

	rejection := ValidateRow(row)
	require.NotNil(t, rejection)
	assert.Equal(t, models.EndBeforeStartCode, rejection.Code)
	require.NotNil(t, rejection.RideID)
	assert.Equal(t, "r2", *rejection.RideID)
}

func TestValidateRowZeroDurationIsValid(t *testing.T) {
	start := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	row := &RideRow{RideID: "r3", StartedAt: start, EndedAt: start}
	assert.Nil(t, ValidateRow(row))
}

func TestValidateRowAccepted(t *testing.T) {
	start := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	row := &RideRow{RideID: "r4", StartedAt: start, EndedAt: start.Add(time.Hour)}
	assert.Nil(t, ValidateRow(row))
}
