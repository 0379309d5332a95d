package repositories

import (
	"context"
	"sort"

	"ride-analytics-backend/db/models"
)

// StationPairFlow reports the dominant direction of travel between two
// stations: TripsFromTo is the stronger direction, SkewFromTo its share of
// all trips between the pair.
type StationPairFlow struct {
	FromStationID   string
	FromStationName *string
	ToStationID     string
	ToStationName   *string
	TripsFromTo     int
	TripsToFrom     int
	NetFlow         int
	SkewFromTo      float64
}

func (r *reportRepository) UnilateralStationPairs(ctx context.Context, topN, minTotalTrips int) ([]StationPairFlow, error) {
	var rows []struct {
		StartStationID string
		EndStationID   string
	}
	err := r.db.WithContext(ctx).
		Model(&models.Ride{}).
		Select("start_station_id", "end_station_id").
		Where("start_station_id IS NOT NULL AND end_station_id IS NOT NULL").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	type route struct{ from, to string }
	counts := make(map[route]int)
	for _, row := range rows {
		counts[route{row.StartStationID, row.EndStationID}]++
	}

	names, err := r.stationNames(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[route]bool)
	var results []StationPairFlow

	for directed := range counts {
		undirected := directed
		if undirected.to < undirected.from {
			undirected = route{directed.to, directed.from}
		}
		if seen[undirected] {
			continue
		}
		seen[undirected] = true

		ab := counts[route{undirected.from, undirected.to}]
		ba := counts[route{undirected.to, undirected.from}]
		total := ab + ba
		if total < minTotalTrips {
			continue
		}

		strongFrom, strongTo := undirected.from, undirected.to
		strong, weak := ab, ba
		if ba > ab {
			strongFrom, strongTo = undirected.to, undirected.from
			strong, weak = ba, ab
		}

		results = append(results, StationPairFlow{
			FromStationID:   strongFrom,
			FromStationName: names[strongFrom],
			ToStationID:     strongTo,
			ToStationName:   names[strongTo],
			TripsFromTo:     strong,
			TripsToFrom:     weak,
			NetFlow:         strong - weak,
			SkewFromTo:      float64(strong) / float64(total),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].NetFlow != results[j].NetFlow {
			return results[i].NetFlow > results[j].NetFlow
		}
		totalI := results[i].TripsFromTo + results[i].TripsToFrom
		totalJ := results[j].TripsFromTo + results[j].TripsToFrom
		if totalI != totalJ {
			return totalI > totalJ
		}
		return results[i].FromStationID < results[j].FromStationID
	})

	if len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}
