package repositories

import (
	"context"
	"sort"
	"time"

	"ride-analytics-backend/db/models"
)

// MemberStation is a start station ranked by its member-rider share on
// Thursdays.
type MemberStation struct {
	StationID   string
	StationName *string
	TotalRides  int
	MemberRides int
	MemberShare float64
}

func (r *reportRepository) TopMemberStationsOnThursdays(ctx context.Context, topN, minRides int) ([]MemberStation, error) {
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

	type tally struct{ total, members int }
	perStation := make(map[string]*tally)
	for _, row := range rows {
		if row.StartedAt.Weekday() != time.Thursday {
			continue
		}
		t, ok := perStation[row.StartStationID]
		if !ok {
			t = &tally{}
			perStation[row.StartStationID] = t
		}
		t.total++
		if row.MemberType == models.MemberTypeMember {
			t.members++
		}
	}

	names, err := r.stationNames(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]MemberStation, 0, len(perStation))
	for stationID, t := range perStation {
		if t.total < minRides {
			continue
		}
		results = append(results, MemberStation{
			StationID:   stationID,
			StationName: names[stationID],
			TotalRides:  t.total,
			MemberRides: t.members,
			MemberShare: float64(t.members) / float64(t.total),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].MemberShare != results[j].MemberShare {
			return results[i].MemberShare > results[j].MemberShare
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
