package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Station represents a dock station observed on either end of a ride.
// Stations are created implicitly the first time a ride references them
// and are never deleted by the importer.
type Station struct {
	StationID string  `gorm:"type:varchar(64);primary_key" json:"station_id"`
	Name      *string `gorm:"type:varchar(256);index" json:"name"`

	// Geographic Information
	Lat *decimal.Decimal `gorm:"type:decimal(10,8)" json:"lat"`
	Lng *decimal.Decimal `gorm:"type:decimal(11,8)" json:"lng"`

	// Observation window. FirstSeenAt only ever moves backwards,
	// LastSeenAt only ever moves forwards.
	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}
