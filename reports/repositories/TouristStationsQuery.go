package repositories

import (
	"context"
	"sort"
	"time"

	"ride-analytics-backend/db/models"
)

// TouristStation is a start station ranked by its casual-rider share during
// the weekend 10:00-18:00 window.
type TouristStation struct {
	StationID   string
	StationName *string
	TotalRides  int
	CasualRides int
	CasualShare float64
}

func (r *reportRepository) TouristStations(ctx context.Context, minRides, topN int) ([]TouristStation, error) {
	var rows []struct {
		StartStationID string
		MemberType     models.MemberType
		StartedAt      time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&models.Ride{}).
		Select("start_station_id", "member_type", "started_at").
		Where("start_station_id IS NOT NULL").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	type tally struct{ total, casual int }
	perStation := make(map[string]*tally)
	for _, row := range rows {
		weekday := row.StartedAt.Weekday()
		if weekday != time.Saturday && weekday != time.Sunday {
			continue
		}
		hour := row.StartedAt.Hour()
		if hour < 10 || hour >= 18 {
			continue
		}

		t, ok := perStation[row.StartStationID]
		if !ok {
			t = &tally{}
			perStation[row.StartStationID] = t
		}
		t.total++
		if row.MemberType == models.MemberTypeCasual {
			t.casual++
		}
	}

	names, err := r.stationNames(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]TouristStation, 0, len(perStation))
	for stationID, t := range perStation {
		if t.total < minRides {
			continue
		}
		results = append(results, TouristStation{
			StationID:   stationID,
			StationName: names[stationID],
			TotalRides:  t.total,
			CasualRides: t.casual,
			CasualShare: float64(t.casual) / float64(t.total),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].CasualShare != results[j].CasualShare {
			return results[i].CasualShare > results[j].CasualShare
		}
		if results[i].TotalRides != results[j].TotalRides {
			return results[i].TotalRides > results[j].TotalRides
		}
		return results[i].StationID < results[j].StationID
	})

	if len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}
