package repositories

import (
	"context"
	"sort"
	"time"

	"ride-analytics-backend/db/models"
)

// HourlyStationRank is one station's rank among Monday start stations for
// one hour of the day.
type HourlyStationRank struct {
	Hour        int
	Rank        int
	StationID   string
	StationName *string
	RideCount   int
}

func (r *reportRepository) TopStationsPerHourOnMondays(ctx context.Context, topPerHour int) ([]HourlyStationRank, error) {
	var rows []struct {
		StartStationID string
		StartedAt      time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&models.Ride{}).
		Select("start_station_id", "started_at").
		Where("start_station_id IS NOT NULL").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	type slot struct {
		hour      int
		stationID string
	}
	counts := make(map[slot]int)
	for _, row := range rows {
		if row.StartedAt.Weekday() != time.Monday {
			continue
		}
		counts[slot{row.StartedAt.Hour(), row.StartStationID}]++
	}

	perHour := make(map[int][]HourlyStationRank)
	for s, count := range counts {
		perHour[s.hour] = append(perHour[s.hour], HourlyStationRank{
			Hour:      s.hour,
			StationID: s.stationID,
			RideCount: count,
		})
	}

	names, err := r.stationNames(ctx)
	if err != nil {
		return nil, err
	}

	var results []HourlyStationRank
	for hour := 0; hour < 24; hour++ {
		stations := perHour[hour]
		sort.Slice(stations, func(i, j int) bool {
			if stations[i].RideCount != stations[j].RideCount {
				return stations[i].RideCount > stations[j].RideCount
			}
			return stations[i].StationID < stations[j].StationID
		})

		if len(stations) > topPerHour {
			stations = stations[:topPerHour]
		}
		for i := range stations {
			stations[i].Rank = i + 1
			stations[i].StationName = names[stations[i].StationID]
			results = append(results, stations[i])
		}
	}

	return results, nil
}
