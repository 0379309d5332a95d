package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// StationCandidate is the merged view of every observation of one station
// within a single batch.
type StationCandidate struct {
	StationID string
	Name      *string

	Lat *decimal.Decimal
	Lng *decimal.Decimal

	FirstSeenAt time.Time
	LastSeenAt  time.Time
}

// BuildStationCandidates folds both station ends of every buffered row into
// one candidate per station id, in row order. A non-empty incoming name and
// a present incoming coordinate win over the prior value; the observation
// window widens to the min start / max end seen. This is a pure fold so the
// batch needs one existence check per unique station, not one per row.
func BuildStationCandidates(rows []*RideRow) map[string]*StationCandidate {
	candidates := make(map[string]*StationCandidate)

	merge := func(id string, name *string, lat, lng *decimal.Decimal, seenAt time.Time) {
		existing, ok := candidates[id]
		if !ok {
			candidates[id] = &StationCandidate{
				StationID:   id,
				Name:        name,
				Lat:         lat,
				Lng:         lng,
				FirstSeenAt: seenAt,
				LastSeenAt:  seenAt,
			}
			return
		}

		if name != nil {
			existing.Name = name
		}
		if lat != nil {
			existing.Lat = lat
		}
		if lng != nil {
			existing.Lng = lng
		}
		if seenAt.Before(existing.FirstSeenAt) {
			existing.FirstSeenAt = seenAt
		}
		if seenAt.After(existing.LastSeenAt) {
			existing.LastSeenAt = seenAt
		}
	}

	for _, r := range rows {
		if r.StartStationID != nil {
			merge(*r.StartStationID, r.StartStationName, r.StartLat, r.StartLng, r.StartedAt)
		}
		if r.EndStationID != nil {
			merge(*r.EndStationID, r.EndStationName, r.EndLat, r.EndLng, r.EndedAt)
		}
	}

	return candidates
}
