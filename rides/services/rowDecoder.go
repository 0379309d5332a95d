package services

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"ride-analytics-backend/db/models"
	"ride-analytics-backend/utils"

	"github.com/shopspring/decimal"
)

// maxRawLineLength caps the raw text stored with an error record.
const maxRawLineLength = 2000

// RideRow is one decoded and normalized CSV record. Optional fields are nil
// when the source cell is empty or whitespace-only.
type RideRow struct {
	RideID       string
	RideableType string

	StartedAt time.Time
	EndedAt   time.Time

	StartStationName *string
	StartStationID   *string
	EndStationName   *string
	EndStationID     *string

	StartLat *decimal.Decimal
	StartLng *decimal.Decimal
	EndLat   *decimal.Decimal
	EndLng   *decimal.Decimal

	MemberCasual *string

	// Source position, kept for error records.
	RowNumber int
	RawLine   string
}

// RowRejection describes a row that was dropped rather than imported.
type RowRejection struct {
	Code      models.ImportErrorCode
	RowNumber int
	RawLine   string
	RideID    *string
}

// timestampLayouts are tried in priority order; the most common feed
// formats come first.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseCoordinate is deliberately lenient: coordinates are non-essential
// metadata, so an unparseable value becomes nil rather than a row failure.
func parseCoordinate(value string) *decimal.Decimal {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// rideCSVReader reads one header-mapped ride record at a time. Fields are
// resolved by header name, so reordered or extra columns are fine.
type rideCSVReader struct {
	source *bufio.Reader
	header map[string]int
	row    int // 1-based physical row; the header is row 1
	eof    bool
}

func newRideCSVReader(r io.Reader) (*rideCSVReader, error) {
	c := &rideCSVReader{source: bufio.NewReaderSize(r, 64*1024)}

	line, err := c.readLine()
	if err != nil && err != io.EOF {
		return nil, err
	}
	c.row = 1
	if err == io.EOF && line == "" {
		return nil, io.ErrUnexpectedEOF
	}
	c.eof = err == io.EOF

	line = strings.TrimPrefix(line, "\ufeff")
	fields, perr := splitCSVLine(line)
	if perr != nil {
		return nil, perr
	}

	c.header = make(map[string]int, len(fields))
	for i, name := range fields {
		c.header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return c, nil
}

func (c *rideCSVReader) readLine() (string, error) {
	line, err := c.source.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

func splitCSVLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	return r.Read()
}

// Read returns the next record. Exactly one of row and rejection is non-nil
// unless err is io.EOF. Blank lines are skipped silently; a structurally
// undecodable line comes back as a CsvBadData rejection, not an error.
func (c *rideCSVReader) Read() (*RideRow, *RowRejection, error) {
	for {
		if c.eof {
			return nil, nil, io.EOF
		}

		line, err := c.readLine()
		if err != nil && err != io.EOF {
			return nil, nil, err
		}
		c.eof = err == io.EOF
		c.row++
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields, perr := splitCSVLine(line)
		if perr != nil {
			return nil, &RowRejection{
				Code:      models.CsvBadDataCode,
				RowNumber: c.row,
				RawLine:   utils.Truncate(line, maxRawLineLength),
			}, nil
		}

		return c.decodeRecord(fields, line)
	}
}

func (c *rideCSVReader) decodeRecord(fields []string, line string) (*RideRow, *RowRejection, error) {
	get := func(name string) string {
		idx, ok := c.header[name]
		if !ok || idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	rideID := get("ride_id")
	var rideIDPtr *string
	if rideID != "" {
		rideIDPtr = &rideID
	}

	startedAt, ok := parseTimestamp(get("started_at"))
	if !ok {
		return nil, &RowRejection{
			Code:      models.DateParseFailedCode,
			RowNumber: c.row,
			RawLine:   utils.Truncate(line, maxRawLineLength),
			RideID:    rideIDPtr,
		}, nil
	}
	endedAt, ok := parseTimestamp(get("ended_at"))
	if !ok {
		return nil, &RowRejection{
			Code:      models.DateParseFailedCode,
			RowNumber: c.row,
			RawLine:   utils.Truncate(line, maxRawLineLength),
			RideID:    rideIDPtr,
		}, nil
	}

	return &RideRow{
		RideID:       rideID,
		RideableType: get("rideable_type"),

		StartedAt: startedAt,
		EndedAt:   endedAt,

		StartStationName: utils.NullIfWhiteSpace(get("start_station_name")),
		StartStationID:   utils.NullIfWhiteSpace(get("start_station_id")),
		EndStationName:   utils.NullIfWhiteSpace(get("end_station_name")),
		EndStationID:     utils.NullIfWhiteSpace(get("end_station_id")),

		StartLat: parseCoordinate(get("start_lat")),
		StartLng: parseCoordinate(get("start_lng")),
		EndLat:   parseCoordinate(get("end_lat")),
		EndLng:   parseCoordinate(get("end_lng")),

		MemberCasual: utils.NullIfWhiteSpace(get("member_casual")),

		RowNumber: c.row,
		RawLine:   line,
	}, nil, nil
}
