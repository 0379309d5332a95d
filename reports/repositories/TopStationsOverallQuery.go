package repositories

import (
	"context"
	"sort"

	"ride-analytics-backend/db/models"
)

// StationBreakdown is a start station's overall volume with the
// member/casual/unknown split.
type StationBreakdown struct {
	StationID    string
	StationName  *string
	TotalRides   int
	MemberRides  int
	CasualRides  int
	UnknownRides int
	MemberShare  float64
	CasualShare  float64
}

func (r *reportRepository) TopStationsOverall(ctx context.Context, topN, minRides int) ([]StationBreakdown, error) {
	var rows []struct {
		StartStationID string
		MemberType     models.MemberType
	}
	err := r.db.WithContext(ctx).
		Model(&models.Ride{}).
		Select("start_station_id", "member_type").
		Where("start_station_id IS NOT NULL").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	type tally struct{ total, members, casual int }
	perStation := make(map[string]*tally)
	for _, row := range rows {
		t, ok := perStation[row.StartStationID]
		if !ok {
			t = &tally{}
			perStation[row.StartStationID] = t
		}
		t.total++
		switch row.MemberType {
		case models.MemberTypeMember:
			t.members++
		case models.MemberTypeCasual:
			t.casual++
		}
	}

	names, err := r.stationNames(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]StationBreakdown, 0, len(perStation))
	for stationID, t := range perStation {
		if t.total < minRides {
			continue
		}
		results = append(results, StationBreakdown{
			StationID:    stationID,
			StationName:  names[stationID],
			TotalRides:   t.total,
			MemberRides:  t.members,
			CasualRides:  t.casual,
			UnknownRides: t.total - t.members - t.casual,
			MemberShare:  float64(t.members) / float64(t.total),
			CasualShare:  float64(t.casual) / float64(t.total),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].TotalRides != results[j].TotalRides {
			return results[i].TotalRides > results[j].TotalRides
		}
		if results[i].MemberRides != results[j].MemberRides {
			return results[i].MemberRides > results[j].MemberRides
		}
		return results[i].StationID < results[j].StationID
	})

	if len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}
