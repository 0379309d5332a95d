package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MemberType classifies the rider on a ride.
type MemberType string

const (
	MemberTypeMember  MemberType = "Member"
	MemberTypeCasual  MemberType = "Casual"
	MemberTypeUnknown MemberType = "Unknown"
)

// MemberTypeFromCSV maps the raw member_casual token to a MemberType.
// Matching is case-insensitive; anything unrecognized or absent is Unknown.
func MemberTypeFromCSV(value *string) MemberType {
	if value == nil {
		return MemberTypeUnknown
	}
	switch strings.ToLower(strings.TrimSpace(*value)) {
	case "member":
		return MemberTypeMember
	case "casual":
		return MemberTypeCasual
	default:
		return MemberTypeUnknown
	}
}

// Ride is one trip record keyed by the externally assigned ride identifier.
type Ride struct {
	RideID       string  `gorm:"type:varchar(64);primary_key" json:"ride_id"`
	RideableType *string `gorm:"type:varchar(32)" json:"rideable_type"`

	StartedAt time.Time `gorm:"index" json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	// Station references are optional on both ends.
	StartStationID *string  `gorm:"type:varchar(64);index:idx_rides_start_station_started,priority:1" json:"start_station_id"`
	StartStation   *Station `gorm:"foreignKey:StartStationID;references:StationID;constraint:OnDelete:RESTRICT" json:"start_station,omitempty"`

	EndStationID *string  `gorm:"type:varchar(64);index:idx_rides_end_station_started,priority:1" json:"end_station_id"`
	EndStation   *Station `gorm:"foreignKey:EndStationID;references:StationID;constraint:OnDelete:RESTRICT" json:"end_station,omitempty"`

	StartLat *decimal.Decimal `gorm:"type:decimal(10,8)" json:"start_lat"`
	StartLng *decimal.Decimal `gorm:"type:decimal(11,8)" json:"start_lng"`
	EndLat   *decimal.Decimal `gorm:"type:decimal(10,8)" json:"end_lat"`
	EndLng   *decimal.Decimal `gorm:"type:decimal(11,8)" json:"end_lng"`

	MemberType MemberType `gorm:"type:varchar(16)" json:"member_type"`
}

// DurationSeconds is the trip length in whole seconds.
func (r *Ride) DurationSeconds() int64 {
	return int64(r.EndedAt.Sub(r.StartedAt).Seconds())
}
