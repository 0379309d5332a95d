package services

import (
	"io"
	"strings"
	"testing"
	"time"

	"ride-analytics-backend/db/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const standardHeader = "ride_id,rideable_type,started_at,ended_at,start_station_name,start_station_id,end_station_name,end_station_id,start_lat,start_lng,end_lat,end_lng,member_casual"

func readAll(t *testing.T, input string) (rows []*RideRow, rejections []*RowRejection) {
	t.Helper()
	reader, err := newRideCSVReader(strings.NewReader(input))
	require.NoError(t, err)

	for {
		row, rejection, err := reader.Read()
		if err == io.EOF {
			return rows, rejections
		}
		require.NoError(t, err)
		if rejection != nil {
			rejections = append(rejections, rejection)
			continue
		}
		rows = append(rows, row)
	}
}

func TestDecodeRow(t *testing.T) {
	input := standardHeader + "\n" +
		"r1,electric_bike,2024-07-01 08:00:00,2024-07-01 08:10:30,Broadway & W 41 St,S1,Pier 40,S2,40.75456,-73.98865,40.72917,-74.01122,member\n"

	rows, rejections := readAll(t, input)
	require.Len(t, rows, 1)
	require.Empty(t, rejections)

	row := rows[0]
	assert.Equal(t, "r1", row.RideID)
	assert.Equal(t, "electric_bike", row.RideableType)
	assert.Equal(t, time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC), row.StartedAt)
	assert.Equal(t, time.Date(2024, 7, 1, 8, 10, 30, 0, time.UTC), row.EndedAt)
	require.NotNil(t, row.StartStationID)
	assert.Equal(t, "S1", *row.StartStationID)
	require.NotNil(t, row.StartStationName)
	assert.Equal(t, "Broadway & W 41 St", *row.StartStationName)
	require.NotNil(t, row.StartLat)
	assert.True(t, row.StartLat.Equal(decimal.RequireFromString("40.75456")))
	require.NotNil(t, row.MemberCasual)
	assert.Equal(t, "member", *row.MemberCasual)
	assert.Equal(t, 2, row.RowNumber)
}

func TestDecodeReorderedAndExtraColumns(t *testing.T) {
	input := "started_at,ended_at,extra_column,ride_id\n" +
		"2024-07-01 08:00:00,2024-07-01 08:10:00,whatever,r9\n"

	rows, rejections := readAll(t, input)
	require.Len(t, rows, 1)
	require.Empty(t, rejections)
	assert.Equal(t, "r9", rows[0].RideID)
	assert.Nil(t, rows[0].StartStationID)
}

func TestDecodeTimestampLayouts(t *testing.T) {
	layouts := []string{
		"2024-07-01 08:00:00",
		"2024-07-01 08:00:00.125",
		"2024-07-01T08:00:00",
		"2024-07-01T08:00:00.125",
		"2024-07-01T08:00:00Z",
		"2024-07-01T08:00:00+02:00",
	}

	for _, value := range layouts {
		t.Run(value, func(t *testing.T) {
			input := "ride_id,started_at,ended_at\n" +
				"r1," + value + "," + value + "\n"
			rows, rejections := readAll(t, input)
			require.Len(t, rows, 1)
			require.Empty(t, rejections)
		})
	}
}

func TestDecodeBadTimestampIsRowFailure(t *testing.T) {
	input := "ride_id,started_at,ended_at\n" +
		"r1,not-a-date,2024-07-01 08:10:00\n" +
		"r2,2024-07-01 08:00:00,\n"

	rows, rejections := readAll(t, input)
	assert.Empty(t, rows)
	require.Len(t, rejections, 2)
	for _, rejection := range rejections {
		assert.Equal(t, models.DateParseFailedCode, rejection.Code)
	}
	require.NotNil(t, rejections[0].RideID)
	assert.Equal(t, "r1", *rejections[0].RideID)
}

func TestDecodeLenientCoordinates(t *testing.T) {
	input := standardHeader + "\n" +
		"r1,,2024-07-01 08:00:00,2024-07-01 08:10:00,,,,,garbage,,40.1,,\n"

	rows, rejections := readAll(t, input)
	require.Len(t, rows, 1)
	require.Empty(t, rejections)

	// Unparseable coordinates become absent, never a row failure.
	assert.Nil(t, rows[0].StartLat)
	assert.Nil(t, rows[0].StartLng)
	require.NotNil(t, rows[0].EndLat)
	assert.True(t, rows[0].EndLat.Equal(decimal.RequireFromString("40.1")))
}

func TestDecodeWhitespaceNormalization(t *testing.T) {
	input := standardHeader + "\n" +
		"  r1  ,  ,2024-07-01 08:00:00,2024-07-01 08:10:00,   ,  S1 ,,,,,,,   \n"

	rows, rejections := readAll(t, input)
	require.Len(t, rows, 1)
	require.Empty(t, rejections)

	row := rows[0]
	assert.Equal(t, "r1", row.RideID)
	assert.Equal(t, "", row.RideableType)
	assert.Nil(t, row.StartStationName)
	require.NotNil(t, row.StartStationID)
	assert.Equal(t, "S1", *row.StartStationID)
	assert.Nil(t, row.MemberCasual)
}

func TestDecodeMalformedLine(t *testing.T) {
	input := "ride_id,started_at,ended_at\n" +
		"\"r1,2024-07-01 08:00:00,2024-07-01 08:10:00\n" +
		"r2,2024-07-01 08:00:00,2024-07-01 08:10:00\n"

	rows, rejections := readAll(t, input)
	require.Len(t, rejections, 1)
	assert.Equal(t, models.CsvBadDataCode, rejections[0].Code)
	assert.NotEmpty(t, rejections[0].RawLine)

	// The import keeps going past a malformed line.
	require.Len(t, rows, 1)
	assert.Equal(t, "r2", rows[0].RideID)
}

func TestDecodeSkipsBlankLinesAndBOM(t *testing.T) {
	input := "\ufeffride_id,started_at,ended_at\n" +
		"\n" +
		"r1,2024-07-01 08:00:00,2024-07-01 08:10:00\n" +
		"   \n"

	rows, rejections := readAll(t, input)
	require.Len(t, rows, 1)
	require.Empty(t, rejections)
	assert.Equal(t, "r1", rows[0].RideID)
}

func TestDecodeTruncatesRawLineOnRejection(t *testing.T) {
	longTail := strings.Repeat("x", maxRawLineLength+500)
	input := "ride_id,started_at,ended_at\n" +
		"r1,bogus," + longTail + "\n"

	_, rejections := readAll(t, input)
	require.Len(t, rejections, 1)
	assert.Len(t, rejections[0].RawLine, maxRawLineLength)
}
